// CLAUDE:SUMMARY Scrape result model: the ten fixed categories, in print order, with their JSON names.
package pagescrape

// Contact is the Contact Information category. Absent scalars are nil.
type Contact struct {
	Phone            *string  `json:"Phone"`
	Email            *string  `json:"Email"`
	Address          *string  `json:"Address"`
	SocialMediaLinks []string `json:"Social Media Links"`
}

// NewsEvents is the News and Events category.
type NewsEvents struct {
	NewsArticles   []string `json:"News Articles"`
	UpcomingEvents []string `json:"Upcoming Events"`
}

// Person is one Key Personnel record.
type Person struct {
	Name string `json:"Name"`
	Role string `json:"Role"`
}

// Result holds the ten categories extracted from one page. Lists are never
// nil so they encode as [] when nothing matched.
type Result struct {
	ContactInformation         Contact    `json:"Contact Information"`
	ReportsAndPublications     []string   `json:"Reports and Publications"`
	StatisticalData            [][]string `json:"Statistical Data"`
	LegislativeAndRegulatory   []string   `json:"Legislative and Regulatory Information"`
	ToolsAndAPIs               []string   `json:"Tools and APIs"`
	NewsAndEvents              NewsEvents `json:"News and Events"`
	KeyPersonnel               []Person   `json:"Key Personnel"`
	LicensingAndCertifications []string   `json:"Licensing and Certifications"`
	PublicDatabases            []string   `json:"Public Databases"`
	DocumentsAndForms          []string   `json:"Documents and Forms"`
}

// Category is one named value of a Result.
type Category struct {
	Name  string
	Value any
}

// Categories lists the result in its fixed order.
func (r *Result) Categories() []Category {
	return []Category{
		{"Contact Information", r.ContactInformation},
		{"Reports and Publications", r.ReportsAndPublications},
		{"Statistical Data", r.StatisticalData},
		{"Legislative and Regulatory Information", r.LegislativeAndRegulatory},
		{"Tools and APIs", r.ToolsAndAPIs},
		{"News and Events", r.NewsAndEvents},
		{"Key Personnel", r.KeyPersonnel},
		{"Licensing and Certifications", r.LicensingAndCertifications},
		{"Public Databases", r.PublicDatabases},
		{"Documents and Forms", r.DocumentsAndForms},
	}
}

// Entry is the outcome for one URL. Result is nil when the URL failed.
type Entry struct {
	URL    string  `json:"url"`
	Result *Result `json:"result"`
	Kind   string  `json:"error_kind,omitempty"`
	Error  string  `json:"error,omitempty"`
}
