package models

type MediaUpload struct {
	BaseModel
	UserID          string `gorm:"not null;index" json:"user_id"`
	OriginalName    string `gorm:"column:original_name" json:"original_name"`
	Path            string `gorm:"not null" json:"path"`
	URL             string `gorm:"column:url" json:"url"`
	MimeType        string `json:"mime_type"`
	Size            int64  `json:"size"`
	StorageProvider string `gorm:"column:storage_provider;default:'local'" json:"storage_provider"` // 'local', 's3', 'cloudflare_r2'
	IsPublic        bool   `gorm:"default:true" json:"is_public"`
}
