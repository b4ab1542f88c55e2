package taskclaim

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/slices"
)

var (
	txHashRegex  = regexp.MustCompile("^0x[0-9a-fA-F]{64}$")
	twitterHosts = []string{"twitter.com", "www.twitter.com", "mobile.twitter.com", "x.com", "www.x.com"}
)

func isValidURL(rawURL string) bool {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isTwitterURL(rawURL string) bool {
	if !isValidURL(rawURL) {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return slices.Contains(twitterHosts, strings.ToLower(u.Hostname()))
}

func IsValidWalletAddress(address string) bool {
	return common.IsHexAddress(address) && strings.HasPrefix(address, "0x")
}

func isValidTxHash(hash string) bool {
	return txHashRegex.MatchString(hash)
}
