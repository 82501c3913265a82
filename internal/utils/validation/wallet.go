package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// walletAddrRegexp matches 0x-prefixed 20-byte hex addresses.
var walletAddrRegexp = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// WalletAddress is the `walletaddr` binding rule used on donation and charity
// requests.
func WalletAddress(fl validator.FieldLevel) bool {
	return walletAddrRegexp.MatchString(fl.Field().String())
}
