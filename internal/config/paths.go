package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/taskledger/internal/constants"
	"github.com/mrz1836/taskledger/internal/errors"
)

// GlobalConfigDir returns the path to the global taskledger configuration
// directory, typically ~/.taskledger on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.ConfigDirName), nil
}

// ProjectConfigDir returns the relative path to the project configuration
// directory. This is always .taskledger relative to the working directory.
func ProjectConfigDir() string {
	return constants.ConfigDirName
}

// GlobalConfigPath returns the full path to the global configuration file,
// typically ~/.taskledger/config.yaml on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the relative path to the project configuration
// file. This is always .taskledger/config.yaml relative to the working
// directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.ConfigFileName)
}

// ProjectLogsDir returns the relative path to the project log directory.
func ProjectLogsDir() string {
	return filepath.Join(ProjectConfigDir(), constants.LogsDirName)
}

// ProjectLogFilePath returns the relative path to the rotating log file.
func ProjectLogFilePath() string {
	return filepath.Join(ProjectLogsDir(), constants.LogFileName)
}
