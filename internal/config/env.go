package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MARKPAD_"

type envKind uint8

const (
	envString envKind = iota
	envInt
	envFloat
	envBool
	envDuration
	envList
)

type envSetting struct {
	section string
	key     string
	kind    envKind
}

// envSettings maps variable names (without prefix) to settings.
var envSettings = map[string]envSetting{
	"HISTORY_DEPTH":     {"editor", "historyDepth", envInt},
	"INDENT_WIDTH":      {"editor", "indentWidth", envInt},
	"TYPING_CHECKPOINT": {"editor", "typingCheckpoint", envDuration},
	"SPLIT_POSITION":    {"layout", "splitPosition", envFloat},
	"SCROLL_COOLDOWN":   {"scroll", "cooldown", envDuration},
	"SCROLL_SYNC":       {"scroll", "sync", envBool},
	"LOG_LEVEL":         {"log", "level", envString},
	"LOG_FILE":          {"log", "file", envString},
	"KEYMAP_PATHS":      {"keymap", "paths", envList},
	"PLUGINS_DIR":       {"plugins", "dir", envString},
	"PLUGINS_ENABLED":   {"plugins", "enabled", envBool},
	"PLUGINS_TIMEOUT":   {"plugins", "timeout", envDuration},
	"STORE_DIR":         {"store", "dir", envString},
	"PREVIEW_STYLE":     {"preview", "style", envString},
	"PREVIEW_WORD_WRAP": {"preview", "wordWrap", envInt},
}

// EnvNames returns the supported variable names with prefix.
func EnvNames() []string {
	names := make([]string, 0, len(envSettings))
	for n := range envSettings {
		names = append(names, EnvPrefix+n)
	}
	return names
}

func envOverrides(lookup func(string) (string, bool)) (map[string]any, error) {
	out := make(map[string]any)
	for name, s := range envSettings {
		raw, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		v, err := parseEnv(s.kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		sec, _ := out[s.section].(map[string]any)
		if sec == nil {
			sec = make(map[string]any)
			out[s.section] = sec
		}
		sec[s.key] = v
	}
	return out, nil
}

func parseEnv(kind envKind, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case envInt:
		return strconv.ParseInt(raw, 10, 64)
	case envFloat:
		return strconv.ParseFloat(raw, 64)
	case envBool:
		switch strings.ToLower(raw) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", raw)
	case envDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		return d.String(), nil
	case envList:
		var list []any
		for _, p := range strings.Split(raw, string(listSeparator)) {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, p)
			}
		}
		return list, nil
	default:
		return raw, nil
	}
}
