package core

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/common"
	"go.uber.org/zap"
)

var globalSetting *Setting

func init() {
	ResetSetting()
}

// Setting holds the [com.<name>] tables of the setting file. A registered
// value is the default of a component; a parsed file replaces it.
type Setting struct {
	ComponentSetting map[string]interface{} `toml:"com,omitempty"`
}

func ResetSetting() {
	globalSetting = newSetting()
}

func RegisterSetting(settingName string, settingVal interface{}) {
	globalSetting.registerSetting(settingName, settingVal)
}

func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	return globalSetting.parseSetting(tomlString)
}

func GetComponentSetting(name string) (interface{}, bool) {
	if globalSetting == nil {
		zap.L().Error("Setting is not initialized")
		return nil, false
	}
	val, ok := globalSetting.ComponentSetting[name]
	return val, ok
}

// DecodeComponentSetting decodes the named component setting into out, which
// keeps its defaults for absent keys. It reports whether the setting exists.
func DecodeComponentSetting(name string, out interface{}) (bool, error) {
	s, ok := GetComponentSetting(name)
	if !ok {
		return false, nil
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return true, errors.Wrapf(err, "encode %s setting", name)
	}
	md, err := toml.Decode(buf.String(), out)
	if err != nil {
		return true, errors.Wrapf(err, "decode %s setting", name)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return true, fmt.Errorf("unknown keys in %s setting: %v", name, undecoded)
	}
	zap.L().Debug(fmt.Sprintf("%s setting:%+v", name, out))
	return true, nil
}

func newSetting() *Setting {
	return &Setting{
		ComponentSetting: make(map[string]interface{}),
	}
}

func (s *Setting) registerSetting(settingName string, settingVal interface{}) {
	s.ComponentSetting[settingName] = settingVal
}

func (s *Setting) parseSetting(tomlString string) error {
	_, err := toml.Decode(tomlString, s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	zap.L().Debug(fmt.Sprintf("Setting is %v", s.ComponentSetting))
	return nil
}
