package azure

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// IsNotFound checks if an error indicates the resource does not exist.
// Absence of a peering or network is a normal state for the reconciler.
func IsNotFound(err error) bool {
	return hasStatusCode(err, http.StatusNotFound)
}

// IsThrottled checks if an error indicates API rate limiting. Throttled
// operations are retryable.
func IsThrottled(err error) bool {
	return hasStatusCode(err, http.StatusTooManyRequests)
}

// IsAuthorizationFailed checks if an error indicates the credential lacks
// access to the subscription. These errors are not retryable.
func IsAuthorizationFailed(err error) bool {
	return hasStatusCode(err, http.StatusForbidden, http.StatusUnauthorized)
}

func hasStatusCode(err error, codes ...int) bool {
	if err == nil {
		return false
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		for _, code := range codes {
			if respErr.StatusCode == code {
				return true
			}
		}
	}
	return false
}
