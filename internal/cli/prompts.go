package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.-]+$`)

func validateTicker(raw string) error {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" {
		return fmt.Errorf("ticker symbol cannot be empty")
	}
	if len(ticker) > 10 {
		return fmt.Errorf("ticker symbol too long (max 10 characters)")
	}
	if !tickerPattern.MatchString(ticker) {
		return fmt.Errorf("ticker may only contain letters, digits, dots and dashes")
	}
	return nil
}

// promptForTicker asks for one ticker symbol.
func promptForTicker() (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Enter a ticker symbol:",
		Help:    "For example AAPL, MSFT or BRK.B",
	}

	err := survey.AskOne(prompt, &ticker, survey.WithValidator(func(ans interface{}) error {
		str, ok := ans.(string)
		if !ok {
			return fmt.Errorf("invalid input")
		}
		return validateTicker(str)
	}))
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(ticker)), nil
}

// promptForTickers asks for a space or comma separated list of tickers.
func promptForTickers() ([]string, error) {
	var raw string
	prompt := &survey.Input{
		Message: "Enter ticker symbols (space or comma separated):",
		Help:    "For example: AAPL MSFT NVDA",
	}

	err := survey.AskOne(prompt, &raw, survey.WithValidator(func(ans interface{}) error {
		str, ok := ans.(string)
		if !ok {
			return fmt.Errorf("invalid input")
		}
		tickers := splitTickers(str)
		if len(tickers) == 0 {
			return fmt.Errorf("enter at least one ticker symbol")
		}
		for _, t := range tickers {
			if err := validateTicker(t); err != nil {
				return fmt.Errorf("%s: %w", t, err)
			}
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return splitTickers(raw), nil
}

// promptForAction picks the next interactive operation.
func promptForAction() (string, error) {
	var choice string
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: []string{
			actionAnalyze,
			actionBatch,
			actionHistory,
			actionQuit,
		},
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

func splitTickers(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	tickers := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.ToUpper(strings.TrimSpace(f))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
