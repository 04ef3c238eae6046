package configs

// Assets configures where uploaded files are written and how their URLs are
// built.
type Assets struct {
	Dir            string `env:"DIR" envDefault:"./data/assets"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080/assets"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}
