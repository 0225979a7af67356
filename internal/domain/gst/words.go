package gst

var ones = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

const (
	thousand = 1000
	lakh     = 100000
	crore    = 10000000
)

// NumberToWords spells n in the Indian numbering system
// (Hundred, Thousand, Lakh, Crore). There is no upper bound: the crore part is
// itself spelled recursively.
func NumberToWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		// -(n+1)+1 keeps math.MinInt64 representable.
		return "Negative " + spell(uint64(-(n+1))+1)
	}
	return spell(uint64(n))
}

// AmountInWords is the legal "amount chargeable" text for a rounded total.
func AmountInWords(total int64) string {
	return NumberToWords(total) + " Only"
}

func spell(n uint64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	case n < thousand:
		return withRemainder(ones[n/100]+" Hundred", n%100)
	case n < lakh:
		return withRemainder(spell(n/thousand)+" Thousand", n%thousand)
	case n < crore:
		return withRemainder(spell(n/lakh)+" Lakh", n%lakh)
	default:
		return withRemainder(spell(n/crore)+" Crore", n%crore)
	}
}

func withRemainder(head string, rest uint64) string {
	if rest == 0 {
		return head
	}
	return head + " " + spell(rest)
}
