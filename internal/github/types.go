package github

// PullRequest is a pull request together with the issues it closes on merge
type PullRequest struct {
	ID            string
	Number        int
	Title         string
	ClosingIssues []Issue
}

// Issue represents an issue closed by a pull request
type Issue struct {
	ID       string
	Number   int
	Title    string
	Projects []Project
}

// Project represents a GitHub project (v2) board an issue belongs to
type Project struct {
	ID     string
	Number int
	Title  string
	URL    string
	Fields []SingleSelectField
}

// SingleSelectField represents a single select field configured on a project.
// Fields of other types are not decoded.
type SingleSelectField struct {
	ID      string
	Name    string
	Options []SingleSelectOption
}

// SingleSelectOption is one of the values selectable for a single select field
type SingleSelectOption struct {
	ID   string
	Name string
}

// FieldByName returns the single select field with exactly the given name
func (p Project) FieldByName(name string) (SingleSelectField, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return SingleSelectField{}, false
}

// OptionByName returns the option with exactly the given name
func (f SingleSelectField) OptionByName(name string) (SingleSelectOption, bool) {
	for _, o := range f.Options {
		if o.Name == name {
			return o, true
		}
	}
	return SingleSelectOption{}, false
}
