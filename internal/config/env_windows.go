//go:build windows

package config

const listSeparator = ';'
