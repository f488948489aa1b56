package manifest

import "strings"

type language struct {
	code      string // IETF code as used in repo names
	name      string
	direction string
}

// languages covers the gateway languages content repos are published in
var languages = []language{
	{"en", "English", "ltr"},
	{"am", "Amharic", "ltr"},
	{"ar", "Arabic", "rtl"},
	{"as", "Assamese", "ltr"},
	{"bn", "Bengali", "ltr"},
	{"ceb", "Cebuano", "ltr"},
	{"es", "Español", "ltr"},
	{"es-419", "Español Latin America", "ltr"},
	{"fa", "Persian", "rtl"},
	{"fr", "Français", "ltr"},
	{"gu", "Gujarati", "ltr"},
	{"ha", "Hausa", "ltr"},
	{"he", "Hebrew", "rtl"},
	{"hi", "Hindi", "ltr"},
	{"hu", "Hungarian", "ltr"},
	{"id", "Bahasa Indonesia", "ltr"},
	{"ilo", "Ilocano", "ltr"},
	{"kn", "Kannada", "ltr"},
	{"ml", "Malayalam", "ltr"},
	{"mr", "Marathi", "ltr"},
	{"ne", "Nepali", "ltr"},
	{"or", "Oriya", "ltr"},
	{"pa", "Punjabi", "ltr"},
	{"pt-br", "Português Brasil", "ltr"},
	{"ru", "Русский", "ltr"},
	{"sw", "Kiswahili", "ltr"},
	{"tl", "Tagalog", "ltr"},
	{"tpi", "Tok Pisin", "ltr"},
	{"ur", "Urdu", "rtl"},
	{"vi", "Tiếng Việt", "ltr"},
	{"zh", "Chinese", "ltr"},
}

type book struct {
	code string // lower-case USFM book id
	name string
	sort int
}

var books = []book{
	{"gen", "Genesis", 1}, {"exo", "Exodus", 2}, {"lev", "Leviticus", 3}, {"num", "Numbers", 4},
	{"deu", "Deuteronomy", 5}, {"jos", "Joshua", 6}, {"jdg", "Judges", 7}, {"rut", "Ruth", 8},
	{"1sa", "1 Samuel", 9}, {"2sa", "2 Samuel", 10}, {"1ki", "1 Kings", 11}, {"2ki", "2 Kings", 12},
	{"1ch", "1 Chronicles", 13}, {"2ch", "2 Chronicles", 14}, {"ezr", "Ezra", 15}, {"neh", "Nehemiah", 16},
	{"est", "Esther", 17}, {"job", "Job", 18}, {"psa", "Psalms", 19}, {"pro", "Proverbs", 20},
	{"ecc", "Ecclesiastes", 21}, {"sng", "Song of Solomon", 22}, {"isa", "Isaiah", 23}, {"jer", "Jeremiah", 24},
	{"lam", "Lamentations", 25}, {"ezk", "Ezekiel", 26}, {"dan", "Daniel", 27}, {"hos", "Hosea", 28},
	{"jol", "Joel", 29}, {"amo", "Amos", 30}, {"oba", "Obadiah", 31}, {"jon", "Jonah", 32},
	{"mic", "Micah", 33}, {"nam", "Nahum", 34}, {"hab", "Habakkuk", 35}, {"zep", "Zephaniah", 36},
	{"hag", "Haggai", 37}, {"zec", "Zechariah", 38}, {"mal", "Malachi", 39},
	{"mat", "Matthew", 41}, {"mrk", "Mark", 42}, {"luk", "Luke", 43}, {"jhn", "John", 44},
	{"act", "Acts", 45}, {"rom", "Romans", 46}, {"1co", "1 Corinthians", 47}, {"2co", "2 Corinthians", 48},
	{"gal", "Galatians", 49}, {"eph", "Ephesians", 50}, {"php", "Philippians", 51}, {"col", "Colossians", 52},
	{"1th", "1 Thessalonians", 53}, {"2th", "2 Thessalonians", 54}, {"1ti", "1 Timothy", 55}, {"2ti", "2 Timothy", 56},
	{"tit", "Titus", 57}, {"phm", "Philemon", 58}, {"heb", "Hebrews", 59}, {"jas", "James", 60},
	{"1pe", "1 Peter", 61}, {"2pe", "2 Peter", 62}, {"1jn", "1 John", 63}, {"2jn", "2 John", 64},
	{"3jn", "3 John", 65}, {"jud", "Jude", 66}, {"rev", "Revelation", 67},
}

// Index maps built at init time.
var (
	languageByCode map[string]*language
	bookByKey      map[string]*book
)

func init() {
	languageByCode = make(map[string]*language, len(languages))
	for i := range languages {
		languageByCode[languages[i].code] = &languages[i]
	}

	bookByKey = make(map[string]*book, len(books)*2)
	for i := range books {
		b := &books[i]
		bookByKey[b.code] = b
		bookByKey[bookKey(b.name)] = b
	}
}

func bookKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

func lookupLanguage(token string) (*language, bool) {
	l, ok := languageByCode[strings.ToLower(token)]
	return l, ok
}

func lookupBook(token string) (*book, bool) {
	b, ok := bookByKey[bookKey(token)]
	return b, ok
}

// BookTitle returns the English name of a USFM book id, or "" if unknown
func BookTitle(code string) string {
	if b, ok := lookupBook(code); ok {
		return b.name
	}
	return ""
}
