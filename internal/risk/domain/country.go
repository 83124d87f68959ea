package domain

// Country is the subset of the external country record the register uses.
type Country struct {
	CCA3       string              `json:"cca3"`
	Capital    string              `json:"capital,omitempty"`
	Region     string              `json:"region"`
	Subregion  string              `json:"subregion,omitempty"`
	Population int64               `json:"population"`
	Names      CountryNames        `json:"names"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	Timezones  []string            `json:"timezones,omitempty"`
}

type CountryNames struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

func (c Country) String() string {
	return c.Names.Common + " (" + c.CCA3 + ")"
}
