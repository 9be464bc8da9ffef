package common

import "fmt"

type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Configuration Error: %s", e.Message)
}

type InputError struct {
	Path    string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("Input Error: %s: %s", e.Path, e.Message)
}

type ReportError struct {
	Message string
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("Report Error: %s", e.Message)
}

func NewConfigError(message string) error {
	return &ConfigError{Message: message}
}

func NewInputError(path, message string) error {
	return &InputError{Path: path, Message: message}
}

func NewReportError(message string) error {
	return &ReportError{Message: message}
}
