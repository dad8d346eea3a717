package views

// Site holds the settings the fallback views need.
type Site struct {
	Name string // SITE_NAME
	URL  string // SITE_URL
}
