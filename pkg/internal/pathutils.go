package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// PromptsDirEnvKey overrides prompts directory discovery when set. It points
// directly at the directory that holds *.chatmode.md and *.instruction.md
// files.
const PromptsDirEnvKey = "MODEKIT_PROMPTS_DIR"

// GetConfigDir returns the default configuration directory path for the given
// appName on the current operating system.
//
// Behavior:
//   - Windows: APPDATA\<appName>; an error if APPDATA is not set.
//   - Unix-like systems: $XDG_CONFIG_HOME/<appName> when set, otherwise
//     $HOME/.config/<appName>.
//
// The returned path is a suggested location and is not created by this
// function; callers should create the directory if they need it to exist.
func GetConfigDir(appName string) (string, error) {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return "", fmt.Errorf("APPDATA environment variable not set")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetCacheDir returns the default per-user cache directory for the current OS.
// On Windows it uses %LOCALAPPDATA%\<appName>\cache when LOCALAPPDATA is set.
// On Unix-like systems it uses $XDG_CACHE_HOME when set, otherwise falls back
// to $HOME/.cache/<appName>. The path is not created by this helper.
func GetCacheDir(appName string) (string, error) {
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName, "cache"), nil
		}
		return "", fmt.Errorf("LOCALAPPDATA environment variable not set")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// GetPromptsDir resolves the VS Code User prompts directory, the location
// where Copilot looks for *.chatmode.md and *.instruction.md files.
//
// Resolution order:
//  1. MODEKIT_PROMPTS_DIR environment variable, used verbatim.
//  2. The platform VS Code User directory:
//     Windows: %APPDATA%\Code\User\prompts
//     macOS:   ~/Library/Application Support/Code/User/prompts
//     Linux:   $XDG_CONFIG_HOME/Code/User/prompts or ~/.config/Code/User/prompts
//
// The directory is not created; storage creates it lazily on first write.
func GetPromptsDir() (string, error) {
	if dir := os.Getenv(PromptsDirEnvKey); dir != "" {
		return dir, nil
	}
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Code", "User", "prompts"), nil
		}
		return "", fmt.Errorf("APPDATA environment variable not set")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "Code", "User", "prompts"), nil
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "Code", "User", "prompts"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "Code", "User", "prompts"), nil
	}
}
