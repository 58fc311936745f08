package model

// AppConfig is the single app configuration document under
// settings/appConfig. Only admins may update it.
type AppConfig struct {
	PromoBannerText string `json:"promoBannerText,omitempty"`
}
