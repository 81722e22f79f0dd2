package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. HANSEG_DICTIONARY_MAIN.
const EnvPrefix = "HANSEG"

type Envelope struct {
	Dictionary Dictionary `yaml:"dictionary"`
	HMM        HMM        `yaml:"hmm"`
	Segment    Segment    `yaml:"segment"`
	Normalize  Normalize  `yaml:"normalize"`
	Server     Server     `yaml:"server"`
}

type Dictionary struct {
	Main string   `yaml:"main"`
	User []string `yaml:"user"`
}

// HMM holds model table paths. The boundary file must hold an emission
// table; its start and transition tables are optional.
type HMM struct {
	Boundary string `yaml:"boundary"`
	POS      string `yaml:"pos"`
}

type Segment struct {
	HMM bool `yaml:"hmm"`
}

type Normalize struct {
	NFKC bool `yaml:"nfkc"`
	T2S  bool `yaml:"t2s"`
}

type Server struct {
	Address  string `yaml:"address"`
	Database string `yaml:"database"`
}

// Default returns the configuration used when no file is found.
func Default() *Envelope {
	return &Envelope{
		Dictionary: Dictionary{Main: "data/dict.txt"},
		HMM:        HMM{Boundary: "data/hmm_boundary.json", POS: "data/pos_hmm.json"},
		Segment:    Segment{HMM: true},
		Server:     Server{Address: ":8080", Database: "data/user_words.sqlite"},
	}
}

// LoadConfigFromFile decodes a YAML file over the defaults. Unknown keys are errors.
func LoadConfigFromFile(path string) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	envelope := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(envelope); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return envelope, nil
}

// Read locates the configuration the same way for every command: an explicit
// file, or config.yaml in the usual directories, then HANSEG_* environment
// variables on top. A missing config.yaml is not an error.
func Read(configFile string) (*Envelope, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/hanseg/")
		v.AddConfigPath("$HOME/.hanseg")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	envelope := Default()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	} else {
		loaded, err := LoadConfigFromFile(v.ConfigFileUsed())
		if err != nil {
			return nil, err
		}
		envelope = loaded
	}
	applyOverrides(v, envelope)
	return envelope, nil
}

func setDefaults(v *viper.Viper, d *Envelope) {
	v.SetDefault("dictionary.main", d.Dictionary.Main)
	v.SetDefault("dictionary.user", d.Dictionary.User)
	v.SetDefault("hmm.boundary", d.HMM.Boundary)
	v.SetDefault("hmm.pos", d.HMM.POS)
	v.SetDefault("segment.hmm", d.Segment.HMM)
	v.SetDefault("normalize.nfkc", d.Normalize.NFKC)
	v.SetDefault("normalize.t2s", d.Normalize.T2S)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.database", d.Server.Database)
}

// applyOverrides copies values set through the environment onto e.
func applyOverrides(v *viper.Viper, e *Envelope) {
	env := func(key string) bool {
		_, ok := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
		return ok
	}
	if env("dictionary.main") {
		e.Dictionary.Main = v.GetString("dictionary.main")
	}
	if env("dictionary.user") {
		e.Dictionary.User = v.GetStringSlice("dictionary.user")
	}
	if env("hmm.boundary") {
		e.HMM.Boundary = v.GetString("hmm.boundary")
	}
	if env("hmm.pos") {
		e.HMM.POS = v.GetString("hmm.pos")
	}
	if env("segment.hmm") {
		e.Segment.HMM = v.GetBool("segment.hmm")
	}
	if env("normalize.nfkc") {
		e.Normalize.NFKC = v.GetBool("normalize.nfkc")
	}
	if env("normalize.t2s") {
		e.Normalize.T2S = v.GetBool("normalize.t2s")
	}
	if env("server.address") {
		e.Server.Address = v.GetString("server.address")
	}
	if env("server.database") {
		e.Server.Database = v.GetString("server.database")
	}
}
