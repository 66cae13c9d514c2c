// Package config defines the LID Manager's runtime options (spec §6)
// and the yaml-backed, builder-style load path the teacher's server
// configuration uses (DefaultOptions + WithXxx + Load/SaveToFile).
package config

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/ib-subnet/lidmgr/fault"
)

// Options is every tunable named in spec §6.
type Options struct {
	Path string `yaml:"-"`

	LMC                      uint8  `yaml:"lmc"`
	ReassignLIDs             bool   `yaml:"reassign_lids"`
	HonorGUID2LIDFile        bool   `yaml:"honor_guid2lid_file"`
	ExitOnFatal              bool   `yaml:"exit_on_fatal"`
	NoClientsRereg           bool   `yaml:"no_clients_rereg"`
	MKey                     uint64 `yaml:"m_key"`
	SubnetPrefix             uint64 `yaml:"subnet_prefix"`
	MKeyLeasePeriod          uint16 `yaml:"m_key_lease_period"`
	SubnetTimeout            uint8  `yaml:"subnet_timeout"`
	LocalPHYErrorsThreshold  uint8  `yaml:"local_phy_errors_threshold"`
	OverrunErrorsThreshold   uint8  `yaml:"overrun_errors_threshold"`
	GUID2LIDPath             string `yaml:"guid2lid_path"`
}

// DefaultOptions returns the option set the original implementation
// ships with.
func DefaultOptions() *Options {
	return &Options{
		LMC:                     0,
		ReassignLIDs:            false,
		HonorGUID2LIDFile:       false,
		ExitOnFatal:             true,
		NoClientsRereg:          false,
		MKeyLeasePeriod:         65535,
		SubnetTimeout:           18,
		LocalPHYErrorsThreshold: 0,
		OverrunErrorsThreshold:  0,
		GUID2LIDPath:            "/var/cache/lidmgr/guid2lid",
	}
}

func (o *Options) WithLMC(lmc uint8) *Options {
	o.LMC = lmc
	return o
}

func (o *Options) WithReassignLIDs(v bool) *Options {
	o.ReassignLIDs = v
	return o
}

func (o *Options) WithHonorGUID2LIDFile(v bool) *Options {
	o.HonorGUID2LIDFile = v
	return o
}

func (o *Options) WithExitOnFatal(v bool) *Options {
	o.ExitOnFatal = v
	return o
}

func (o *Options) WithNoClientsRereg(v bool) *Options {
	o.NoClientsRereg = v
	return o
}

func (o *Options) WithMKey(key uint64) *Options {
	o.MKey = key
	return o
}

func (o *Options) WithSubnetPrefix(prefix uint64) *Options {
	o.SubnetPrefix = prefix
	return o
}

func (o *Options) WithMKeyLeasePeriod(period uint16) *Options {
	o.MKeyLeasePeriod = period
	return o
}

func (o *Options) WithSubnetTimeout(timeout uint8) *Options {
	o.SubnetTimeout = timeout
	return o
}

func (o *Options) WithErrorThresholds(localPHY, overrun uint8) *Options {
	o.LocalPHYErrorsThreshold = localPHY
	o.OverrunErrorsThreshold = overrun
	return o
}

func (o *Options) WithGUID2LIDPath(path string) *Options {
	o.GUID2LIDPath = path
	return o
}

// Validate enforces the invariants spec §6 places on LMC (the only
// option with a hard range constraint; everything else is an opaque
// knob the manager passes through).
func (o *Options) Validate() error {
	if o.LMC > 7 {
		return fault.FaultInvalidLMC(o.LMC)
	}
	return nil
}

// Load reads Options from a YAML file at o.Path, in place.
func (o *Options) Load() error {
	if o.Path == "" {
		return errors.New("config: no path set")
	}
	data, err := os.ReadFile(o.Path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	if err := yaml.UnmarshalStrict(data, o); err != nil {
		return errors.Wrapf(err, "parse config file %q", o.Path)
	}
	return o.Validate()
}

// SaveToFile serializes o as YAML to filename.
func (o *Options) SaveToFile(filename string) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return os.WriteFile(filename, data, 0o644)
}
