package panchanga

import "time"

var tithiNames = [30]string{
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Purnima",
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Amavasya",
}

// Nakshatras27 lists the classic lunar mansions in order from Ashwini.
var Nakshatras27 = []string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishtha", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati",
}

// Abhijit is the synthetic 28th nakshatra. In the 28 scheme it sits between
// Uttara Ashadha and Shravana.
const Abhijit = "Abhijit"

// abhijitPosition is Abhijit's zero-based index in the 28 scheme.
const abhijitPosition = 21

// Nakshatras28 is the 28 mansion list with Abhijit inserted.
var Nakshatras28 = func() []string {
	out := make([]string, 0, 28)
	out = append(out, Nakshatras27[:abhijitPosition]...)
	out = append(out, Abhijit)
	return append(out, Nakshatras27[abhijitPosition:]...)
}()

var yogaNames = [27]string{
	"Vishkumbha", "Priti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda",
	"Sukarma", "Dhriti", "Shula", "Ganda", "Vriddhi", "Dhruva", "Vyaghata",
	"Harshana", "Vajra", "Siddhi", "Vyatipata", "Variyana", "Parigha",
	"Shiva", "Siddha", "Sadhya", "Shubha", "Shukla", "Brahma", "Indra",
	"Vaidhriti",
}

var rashiNames = [12]string{
	"Mesha", "Vrishabha", "Mithuna", "Karka", "Simha", "Kanya",
	"Tula", "Vrishchika", "Dhanu", "Makara", "Kumbha", "Meena",
}

var varaSanskrit = [7]string{
	"Ravivara", "Somavara", "Mangalavara", "Budhavara",
	"Guruvara", "Shukravara", "Shanivara",
}

// TithiGroup is the fivefold classification of lunar days.
type TithiGroup string

const (
	Nanda  TithiGroup = "Nanda"
	Bhadra TithiGroup = "Bhadra"
	Jaya   TithiGroup = "Jaya"
	Rikta  TithiGroup = "Rikta"
	Purna  TithiGroup = "Purna"
)

var tithiGroupOrder = [5]TithiGroup{Nanda, Bhadra, Jaya, Rikta, Purna}

// GroupOf returns the group of a 1-based tithi index.
func GroupOf(tithi int) TithiGroup {
	return tithiGroupOrder[(tithi-1)%5]
}

// ParseTithiGroup resolves a group name.
func ParseTithiGroup(name string) (TithiGroup, bool) {
	for _, g := range tithiGroupOrder {
		if string(g) == name {
			return g, true
		}
	}
	return "", false
}

// Paksha is the lunar fortnight.
type Paksha string

const (
	Shukla  Paksha = "Shukla"  // waxing
	Krishna Paksha = "Krishna" // waning
)

// NakshatraName returns the name of a 1-based nakshatra index in the given
// scheme, or "" if out of range.
func NakshatraName(index, scheme int) string {
	names := Nakshatras27
	if scheme == 28 {
		names = Nakshatras28
	}
	if index < 1 || index > len(names) {
		return ""
	}
	return names[index-1]
}

// NakshatraIndex returns the 1-based index of a nakshatra name in the given
// scheme, or 0 if unknown.
func NakshatraIndex(name string, scheme int) int {
	names := Nakshatras27
	if scheme == 28 {
		names = Nakshatras28
	}
	for i, n := range names {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// RashiName returns the sign name of a 1-based rashi index.
func RashiName(index int) string {
	if index < 1 || index > len(rashiNames) {
		return ""
	}
	return rashiNames[index-1]
}

// VaraSanskrit returns the Sanskrit name of a weekday.
func VaraSanskrit(d time.Weekday) string {
	return varaSanskrit[d]
}

// ParseWeekday resolves an English weekday name such as "Sunday".
func ParseWeekday(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name || varaSanskrit[d] == name {
			return d, true
		}
	}
	return 0, false
}
