package sessionauth

import "strings"

// providerCategories maps provider error identifiers to taxonomy categories.
// Identifiers follow the provider's exception naming; anything absent here
// resolves to CategoryUnknown. UserNotFoundException deliberately maps to
// InvalidCredentials so sign-in failures never reveal account existence.
var providerCategories = map[string]Category{
	"NotAuthorizedException":         CategoryInvalidCredentials,
	"UserNotFoundException":          CategoryInvalidCredentials,
	"UserNotConfirmedException":      CategoryUnconfirmedAccount,
	"CodeMismatchException":          CategoryInvalidOrExpiredCode,
	"ExpiredCodeException":           CategoryInvalidOrExpiredCode,
	"InvalidPasswordException":       CategoryWeakPassword,
	"UsernameExistsException":        CategoryDuplicateAccount,
	"AliasExistsException":           CategoryDuplicateAccount,
	"LimitExceededException":         CategoryRateLimited,
	"TooManyRequestsException":       CategoryRateLimited,
	"TooManyFailedAttemptsException": CategoryRateLimited,
	"InvalidParameterException":      CategoryInvalidInput,

	ProviderCodeNetwork:  CategoryNetworkError,
	ProviderCodeNotReady: CategorySdkNotReady,
}

var networkHints = []string{
	"network",
	"connection",
	"timeout",
	"timed out",
	"unreachable",
	"no such host",
	"refused",
}

// Translate converts a provider error identifier and its raw message into a
// taxonomy category. Pure lookup plus a connectivity heuristic on the raw
// message; no side effects, no network access.
func Translate(code, rawMessage string) Category {
	if cat, ok := providerCategories[code]; ok {
		return cat
	}

	lower := strings.ToLower(rawMessage)
	for _, hint := range networkHints {
		if strings.Contains(lower, hint) {
			return CategoryNetworkError
		}
	}

	return CategoryUnknown
}
