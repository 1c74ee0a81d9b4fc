package panchanga

type karanaEntry struct {
	name  string
	fixed bool
}

// karanaTable maps each of the 60 half-tithis of a lunar month to its
// karana. The four fixed karanas occupy the first and last three slots;
// the seven movable ones repeat eight times in between.
var karanaTable = [60]karanaEntry{
	{"Kimstughna", true},
	{"Bava", false}, {"Balava", false}, {"Kaulava", false}, {"Taitila", false}, {"Garija", false}, {"Vanija", false}, {"Vishti", false},
	{"Bava", false}, {"Balava", false}, {"Kaulava", false}, {"Taitila", false}, {"Garija", false}, {"Vanija", false}, {"Vishti", false},
	{"Bava", false}, {"Balava", false}, {"Kaulava", false}, {"Taitila", false}, {"Garija", false}, {"Vanija", false}, {"Vishti", false},
	{"Bava", false}, {"Balava", false}, {"Kaulava", false}, {"Taitila", false}, {"Garija", false}, {"Vanija", false}, {"Vishti", false},
	{"Bava", false}, {"Balava", false}, {"Kaulava", false}, {"Taitila", false}, {"Garija", false}, {"Vanija", false}, {"Vishti", false},
	{"Bava", false}, {"Balava", false}, {"Kaulava", false}, {"Taitila", false}, {"Garija", false}, {"Vanija", false}, {"Vishti", false},
	{"Bava", false}, {"Balava", false}, {"Kaulava", false}, {"Taitila", false}, {"Garija", false}, {"Vanija", false}, {"Vishti", false},
	{"Bava", false}, {"Balava", false}, {"Kaulava", false}, {"Taitila", false}, {"Garija", false}, {"Vanija", false}, {"Vishti", false},
	{"Shakuni", true}, {"Chatushpada", true}, {"Naga", true},
}

// KaranaName looks up a 1-based karana index. It fails with
// ErrKaranaUndefined rather than guessing.
func KaranaName(index int) (name string, fixed bool, err error) {
	if index < 1 || index > len(karanaTable) {
		return "", false, ErrKaranaUndefined
	}
	e := karanaTable[index-1]
	if e.name == "" {
		return "", false, ErrKaranaUndefined
	}
	return e.name, e.fixed, nil
}
