package viz

// Selection maps a dropdown role ("x", "source", ...) to a column name.
type Selection map[string]string

// Role is one dropdown: its options and the effective choice.
type Role struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
	Value   string   `json:"value"`
}

// choose returns the selected option, or the first one when the selection
// is missing or not among the options.
func choose(sel Selection, role string, options []string) string {
	if len(options) == 0 {
		return ""
	}
	if v, ok := sel[role]; ok {
		for _, o := range options {
			if o == v {
				return v
			}
		}
	}
	return options[0]
}

func role(sel Selection, name, label string, options []string) Role {
	return Role{Name: name, Label: label, Options: options, Value: choose(sel, name, options)}
}
