package ui

import (
	"github.com/AlecAivazis/survey/v2"
)

// MultiSelect は options から1つ以上を選ばせる
// describe が nil でなければ各選択肢の説明として表示する
func MultiSelect(message string, options []string, describe func(option string) string) ([]string, error) {
	var selected []string
	prompt := &survey.MultiSelect{
		Message: message,
		Options: options,
		Default: options,
	}
	if describe != nil {
		prompt.Description = func(value string, _ int) string { return describe(value) }
	}
	err := survey.AskOne(prompt, &selected, survey.WithValidator(survey.MinItems(1)))
	return selected, err
}

// Confirm は y/N の確認を取る
func Confirm(message string, defaultValue bool) (bool, error) {
	ok := defaultValue
	err := survey.AskOne(&survey.Confirm{Message: message, Default: defaultValue}, &ok)
	return ok, err
}
