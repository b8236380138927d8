package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	BaseURL         string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Upload settings
	UploadDir         string   `envconfig:"UPLOAD_DIR" default:"uploads"`
	MaxImageSizeBytes int64    `envconfig:"MAX_IMAGE_SIZE" default:"104857600"`
	MaxVideoSizeBytes int64    `envconfig:"MAX_VIDEO_SIZE" default:"10737418240"`
	AllowedImageTypes []string `envconfig:"ALLOWED_IMAGE_TYPES" default:"image/jpeg,image/png,image/jpg"`
	AllowedVideoTypes []string `envconfig:"ALLOWED_VIDEO_TYPES" default:"video/mp4,video/mov,video/avi"`

	// Dashboard credentials. Password values are bcrypt hashes, never
	// plaintext; generate them with the hashpw command.
	AdminUsername      string `envconfig:"ADMIN_USERNAME"`
	AdminPasswordHash  string `envconfig:"ADMIN_PASSWORD_HASH"`
	ReviewUsername     string `envconfig:"REVIEW_USERNAME"`
	ReviewPasswordHash string `envconfig:"REVIEW_PASSWORD_HASH"`

	// Session cookie
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"portal_session"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"28800"` // 8 hours

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Email notifications
	SendgridAPIKey string `envconfig:"SENDGRID_API_KEY"`
	EmailFromName  string `envconfig:"EMAIL_FROM_NAME" default:"ICT Assessment Portal"`
	EmailFromAddr  string `envconfig:"EMAIL_FROM_ADDR" default:"noreply@infraassessment.ng"`
}
