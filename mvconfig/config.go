// Package mvconfig loads the multiverse's on-disk configuration: the data
// directory, the retention knob, and logging options. It mirrors
// cmd/mive/config.go's TOML loading discipline (same tomlSettings shape, same
// "file name prefixed onto line errors" behavior) scaled down to the handful
// of fields this package actually needs.
package mvconfig

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
)

// tomlSettings ensures TOML keys use the same names as the Go struct fields,
// so a Config's fields can be documented once and referenced directly in a
// config file without a separate key-mapping table to keep in sync.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// Config holds everything a multiversebench run or an embedding service
// needs to stand up an mvactor.Actor and a blockstore.
type Config struct {
	// DataDir is the directory backing the LevelDB block store. Empty uses
	// an in-memory store instead (useful for scenario scripts and tests).
	DataDir string

	// SuffixToKeep overrides multiverse.DefaultSuffixToKeep. Zero means use
	// the default.
	SuffixToKeep uint32

	// GCIntervalMS is the actor's background GC tick period, in
	// milliseconds. Zero disables the background ticker.
	GCIntervalMS int64

	// DatabaseCache and DatabaseHandles size the LevelDB block store, the
	// same knobs ethdb/leveldb.New takes (named the way cmd/utils/flags.go
	// names the equivalent chain-database flags).
	DatabaseCache   int
	DatabaseHandles int

	// LogFile, when set, directs logs to a rotated file instead of stderr.
	LogFile string
	// LogJSON selects the JSON log handler over the terminal handler.
	LogJSON bool
	// Verbosity is a log.Lvl-compatible integer (0 = crit, 5 = trace).
	Verbosity int
}

// Default is the zero-config baseline: in-memory store, default retention,
// no background GC ticker, stderr logging at info level.
var Default = Config{
	SuffixToKeep:    0,
	DatabaseCache:   512,
	DatabaseHandles: 256,
	Verbosity:       3,
}

// Load reads and decodes a TOML file into cfg, starting from cfg's existing
// values as defaults (the same override-over-defaults pattern
// loadBaseConfig uses: defaults first, file values win where present).
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}
