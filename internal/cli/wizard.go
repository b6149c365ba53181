package cli

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

func confirmAction(message string) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}

func provideSensitiveInput(message string) (string, error) {
	content := ""
	prompt := &survey.Password{
		Message: message,
	}
	if err := survey.AskOne(prompt, &content, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}

	return content, nil
}

func provideInput(message string, defaultValue string) (string, error) {
	content := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &content, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		content = defaultValue
	}

	return content, nil
}
