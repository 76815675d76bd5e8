package api

import (
	"strconv"
	"strings"

	"dao_voting/sdk"

	"github.com/pkg/errors"
)

var errMalformed = errors.New("malformed request")

// unwrapPayload trims whitespace and one layer of quotes, failing on empty input.
func unwrapPayload(payload string, errMsg string) (string, error) {
	raw := strings.TrimSpace(payload)
	if raw == "" {
		return "", errors.Wrap(errMalformed, errMsg)
	}
	if len(raw) >= 2 {
		first := raw[0]
		last := raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			if unquoted, err := strconv.Unquote(raw); err == nil {
				if strings.TrimSpace(unquoted) == "" {
					return "", errors.Wrap(errMalformed, errMsg)
				}
				return unquoted, nil
			}
			raw = strings.TrimSpace(raw[1 : len(raw)-1])
			if raw == "" {
				return "", errors.Wrap(errMalformed, errMsg)
			}
		}
	}
	return raw, nil
}

// parseUintField is the uint variant used for amounts and ids.
func parseUintField(val string, field string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(val), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errMalformed, "invalid %s", field)
	}
	return n, nil
}

// ParseChoice reads a vote choice. Unknown text is an error so a typo never
// counts as "against".
// Example payload: ParseChoice("for")
func ParseChoice(val string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y", "for":
		return true, nil
	case "0", "false", "no", "n", "against":
		return false, nil
	default:
		return false, errors.Wrapf(errMalformed, "invalid vote choice %q", val)
	}
}

func parseAddressField(val string, field string) (sdk.Address, error) {
	addr, err := sdk.AddressFromString(strings.TrimSpace(val))
	if err != nil {
		return sdk.ZeroAddress, errors.Wrapf(errMalformed, "invalid %s", field)
	}
	return addr, nil
}
