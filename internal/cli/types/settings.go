package types

// AppSettings is the organisation branding singleton
type AppSettings struct {
	Name           string `json:"name"`
	LogoPath       string `json:"logo_path,omitempty"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// ChangeNameRequest renames the organisation
type ChangeNameRequest struct {
	Name string `json:"name"`
}

// ChangeColorRequest sets both brand colors
type ChangeColorRequest struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}
