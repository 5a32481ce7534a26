package unit

import "strings"

// reservedSuffixes are the unit file extensions the service manager
// recognizes. A logical unit name carrying one would collide with the names
// synthesis assigns.
var reservedSuffixes = []string{
	".service", ".socket", ".device", ".mount", ".automount",
	".swap", ".target", ".path", ".timer", ".slice", ".scope",
}

func reservedSuffix(name string) (string, bool) {
	for _, suffix := range reservedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return suffix, true
		}
	}
	return "", false
}

// Synthesize turns logical unit descriptions into installable systemd
// units. Every logical unit becomes a .service document; a unit carrying a
// Timer section additionally becomes a .timer document scheduling that
// service.
func Synthesize(set *Set) (*Set, error) {
	if set == nil || set.Len() == 0 {
		return nil, &emptyUnitSetError{}
	}
	for _, name := range set.Names() {
		if suffix, ok := reservedSuffix(name); ok {
			return nil, &reservedNameError{name: name, suffix: suffix}
		}
	}

	out := NewSet()
	for _, name := range set.Names() {
		doc, _ := set.Get(name)
		timer, hadTimer := doc.Get("Timer")
		if err := out.Insert(name+".service", synthesizeService(doc, hadTimer)); err != nil {
			return nil, err
		}
		if hadTimer {
			if err := out.Insert(name+".timer", synthesizeTimer(name, timer)); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// synthesizeService copies every non-Timer section verbatim and injects the
// Service defaults. StandardOutput and StandardError always end up as
// journal; Type=oneshot is only a fallback for timer-driven services.
func synthesizeService(doc *Document, hadTimer bool) *Document {
	out := NewDocument()
	for _, sectionName := range doc.Names() {
		if sectionName == "Timer" {
			continue
		}
		src, _ := doc.Get(sectionName)
		dst := out.Section(sectionName)
		for _, e := range src.Entries() {
			dst.Append(e.Key, e.Value)
		}
	}

	svc := out.Section("Service")
	if hadTimer {
		svc.SetDefault("Type", "oneshot")
	}
	svc.Set("StandardOutput", "journal")
	svc.Set("StandardError", "journal")
	return out
}

// synthesizeTimer builds the sibling .timer document. Description moves to
// the Unit section; every other timer key keeps its order.
func synthesizeTimer(name string, timer *Section) *Document {
	out := NewDocument()

	tu := out.Section("Unit")
	tt := out.Section("Timer")
	for _, e := range timer.Entries() {
		if e.Key == "Description" {
			tu.Append(e.Key, e.Value)
			continue
		}
		tt.Append(e.Key, e.Value)
	}
	tu.SetDefault("Description", "Timer for "+name)
	tt.Set("Unit", name+".service")

	out.Section("Install").Set("WantedBy", "timers.target")
	return out
}
