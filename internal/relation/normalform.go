package relation

import (
	"fmt"
	"strings"
)

// NormalForm is a level in the normalization hierarchy. The ordering of the
// constants matches the hierarchy, so levels compare directly with <= and >=.
type NormalForm int

const (
	Unnormalized NormalForm = iota
	FirstNF
	SecondNF
	ThirdNF
	BCNF
	FourthNF
)

func (f NormalForm) String() string {
	switch f {
	case FirstNF:
		return "1NF"
	case SecondNF:
		return "2NF"
	case ThirdNF:
		return "3NF"
	case BCNF:
		return "BCNF"
	case FourthNF:
		return "4NF"
	default:
		return "unnormalized"
	}
}

// ParseNormalForm parses a target form name as given on the command line.
func ParseNormalForm(s string) (NormalForm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1nf":
		return FirstNF, nil
	case "2nf":
		return SecondNF, nil
	case "3nf":
		return ThirdNF, nil
	case "bcnf":
		return BCNF, nil
	case "4nf":
		return FourthNF, nil
	default:
		return Unnormalized, fmt.Errorf("unknown normal form %q (must be 1nf, 2nf, 3nf, bcnf, or 4nf)", s)
	}
}
