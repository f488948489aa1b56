package rc

// Kind classifies the resource a link points into
type Kind int

const (
	KindOther Kind = iota // scripture, notes and anything not crawled
	KindTA                // translationAcademy manuals
	KindTW                // translationWords dictionary
)

// KindOf maps a resource identifier to its kind
func KindOf(resource string) Kind {
	switch resource {
	case "ta":
		return KindTA
	case "tw":
		return KindTW
	default:
		return KindOther
	}
}

func (k Kind) String() string {
	switch k {
	case KindTA:
		return "ta"
	case KindTW:
		return "tw"
	default:
		return "other"
	}
}

// Crawlable reports whether links of this kind pull appendix articles in
func (k Kind) Crawlable() bool {
	return k == KindTA || k == KindTW
}

// ParseKind is the inverse of Kind.String for the crawlable kinds
func ParseKind(s string) (Kind, bool) {
	k := KindOf(s)
	return k, k != KindOther
}
