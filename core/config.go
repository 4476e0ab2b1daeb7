package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address            string
		DebugAddress       string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DisableRequestLogs bool
	}

	DatabaseConfig struct {
		Engine         string // mongo | inmem
		URI            string
		Name           string
		ConnectTimeout time.Duration
	}

	CascadeConfig struct {
		CategoryPolicy string // retain | setnull | restrict
	}

	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		RollbarToken     string
		SendgridApiKey   string
		WorkDir          string

		Server   ServerConfig
		Database DatabaseConfig
		Cascade  CascadeConfig
	}
)

// NewConfig reads the app configuration from the environment.
// `config/.env.<env>` is loaded first when it exists.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "StudyNotion")
	conf.SetDefault("secretKey", "k3x!9q#c7^b0wz&l@n1v)p4r(e8t*d2h_fy5s+gmj6oa")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "StudyNotion <noreply@localhost>")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")

	conf.SetDefault("server.address", ":4000")
	conf.SetDefault("server.debugAddress", ":4010")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 24*time.Hour)
	conf.SetDefault("server.disableRequestLogs", false)

	conf.SetDefault("database.engine", "mongo")
	conf.SetDefault("database.uri", "mongodb://localhost:27017")
	conf.SetDefault("database.name", "studynotion")
	conf.SetDefault("database.connectTimeout", 10*time.Second)

	conf.SetDefault("cascade.categoryPolicy", "retain")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := projectRoot()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	from, err := mail.ParseAddress(conf.GetString("defaultFromEmail"))
	if err != nil {
		log.Fatalf("config.defaultFromEmail: %v", err)
	}

	return &Config{
		Env:              env,
		Build:            conf.GetString("build"),
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		AppName:          conf.GetString("appName"),
		SecretKey:        conf.GetString("secretKey"),
		FrontendBaseURL:  conf.GetString("frontendBaseURL"),
		DefaultFromEmail: *from,
		RollbarToken:     conf.GetString("rollbarToken"),
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		WorkDir:          wd,
		Server: ServerConfig{
			Address:            conf.GetString("server.address"),
			DebugAddress:       conf.GetString("server.debugAddress"),
			ShutdownTimeout:    conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("server.jwtExpirationDelta"),
			DisableRequestLogs: conf.GetBool("server.disableRequestLogs"),
		},
		Database: DatabaseConfig{
			Engine:         strings.ToLower(conf.GetString("database.engine")),
			URI:            conf.GetString("database.uri"),
			Name:           conf.GetString("database.name"),
			ConnectTimeout: conf.GetDuration("database.connectTimeout"),
		},
		Cascade: CascadeConfig{
			CategoryPolicy: strings.ToLower(conf.GetString("cascade.categoryPolicy")),
		},
	}
}

// projectRoot walks up from the working directory until it finds go.mod.
// go test runs from the package directory, so the .env lookup cannot rely on the cwd.
// Falls back to the cwd when no go.mod is found (e.g. a deployed binary).
func projectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
