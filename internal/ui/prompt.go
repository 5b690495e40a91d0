package ui

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// SelectFile asks the user to pick one of files. Typing filters the list.
func SelectFile(message string, files []string) (string, error) {
	var result string
	prompt := &survey.Select{
		Message:  message,
		Options:  files,
		PageSize: 10,
		Filter: func(filter string, value string, index int) bool {
			return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
		},
	}

	err := survey.AskOne(prompt, &result, survey.WithValidator(survey.Required))
	return result, err
}
