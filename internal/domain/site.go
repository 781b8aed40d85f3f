package domain

// SiteSetting Model, the single row of site-wide settings
type SiteSetting struct {
	ID           uint   `gorm:"primaryKey" json:"-"`                        // Primary key
	LogoURL      string `gorm:"size:255" json:"logo_url"`                   // Logo shown in the header
	ContactInfo  string `gorm:"size:255" json:"contact_info"`               // Contact line
	SEOTitle     string `gorm:"column:seo_title;size:255" json:"seo_title"` // Page title
	Announcement string `gorm:"size:255" json:"announcement"`               // Banner text
}

// Ticker Model, a named value shown site-wide (e.g. USD/TRY)
type Ticker struct {
	ID         uint   `gorm:"primaryKey" json:"id"`          // Primary key
	Name       string `gorm:"size:50;not null" json:"name"`  // e.g. "USD/TRY" or "PVC Price"
	Value      string `gorm:"size:50;not null" json:"value"` // Current value
	ChangeRate string `gorm:"size:20" json:"change_rate"`    // e.g. "+0.5%"
}
