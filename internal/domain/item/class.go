package item

import "strings"

// Class is a character class with its accepted aliases.
type Class struct {
	Name    string
	Aliases []string
}

// Classes is the fixed class enumeration in display order.
var Classes = []Class{
	{Name: "Scout", Aliases: []string{"Scoot"}},
	{Name: "Soldier", Aliases: []string{"Solly"}},
	{Name: "Pyro"},
	{Name: "Demoman", Aliases: []string{"Demo"}},
	{Name: "Heavy", Aliases: []string{"Hoovy"}},
	{Name: "Engineer", Aliases: []string{"Engi", "Engie"}},
	{Name: "Medic"},
	{Name: "Sniper"},
	{Name: "Spy"},
}

var classOrder = func() map[string]int {
	m := make(map[string]int, len(Classes))
	for i, c := range Classes {
		m[c.Name] = i
	}
	return m
}()

// ParseClass matches a word against class names and aliases, case-insensitively.
func ParseClass(word string) (string, bool) {
	for _, c := range Classes {
		if strings.EqualFold(word, c.Name) {
			return c.Name, true
		}
		for _, a := range c.Aliases {
			if strings.EqualFold(word, a) {
				return c.Name, true
			}
		}
	}
	return "", false
}

// ClassRank returns the enumeration position of a class, or -1.
func ClassRank(name string) int {
	if i, ok := classOrder[name]; ok {
		return i
	}
	return -1
}
