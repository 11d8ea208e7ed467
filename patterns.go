package svcerr

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher tests a stringified failure value.
type Matcher interface {
	// Match reports whether value satisfies the matcher. Matching is
	// case-sensitive and performed on the value exactly as extracted.
	Match(value string) bool

	// Example returns a value known to satisfy the matcher.
	Example() string

	String() string
}

type literalMatcher string

// Literal returns a Matcher that succeeds when value contains s.
func Literal(s string) Matcher {
	return literalMatcher(s)
}

func (m literalMatcher) Match(value string) bool { return strings.Contains(value, string(m)) }
func (m literalMatcher) Example() string         { return string(m) }
func (m literalMatcher) String() string          { return fmt.Sprintf("%q", string(m)) }

type regexpMatcher struct {
	re      *regexp.Regexp
	example string
}

// Pattern returns a Matcher backed by a regular expression. example must
// match expr; Pattern panics otherwise, so tables fail at init time.
func Pattern(expr, example string) Matcher {
	re := regexp.MustCompile(expr)
	if !re.MatchString(example) {
		panic(fmt.Sprintf("svcerr: example %q does not match pattern %q", example, expr))
	}
	return regexpMatcher{re: re, example: example}
}

func (m regexpMatcher) Match(value string) bool { return m.re.MatchString(value) }
func (m regexpMatcher) Example() string         { return m.example }
func (m regexpMatcher) String() string          { return "/" + m.re.String() + "/" }

// PatternEntry binds a kind to the matchers that select it.
type PatternEntry struct {
	Kind     ErrorKind
	Matchers []Matcher
}

// Matches reports whether any matcher of the entry accepts value.
func (e PatternEntry) Matches(value string) bool {
	for _, m := range e.Matchers {
		if m.Match(value) {
			return true
		}
	}
	return false
}

// DefaultPatterns returns the built-in pattern table, ordered like Kinds.
// Kinds with no matchers are only reachable by passing the kind directly or
// through destination refinement.
func DefaultPatterns() []PatternEntry {
	return []PatternEntry{
		{Kind: KindCert, Matchers: []Matcher{
			Literal("CERT_SIGNATURE_FAILURE"),
			Literal("CERT_NOT_YET_VALID"),
			Literal("CERT_REVOKED"),
			Literal("CERT_REJECTED"),
		}},
		{Kind: KindCertExpired, Matchers: []Matcher{
			Literal("CERT_HAS_EXPIRED"),
		}},
		{Kind: KindCertSelfSigned, Matchers: []Matcher{
			Literal("DEPTH_ZERO_SELF_SIGNED_CERT"),
		}},
		{Kind: KindCertUnknownOrInvalid, Matchers: []Matcher{
			Literal("UNABLE_TO_VERIFY_LEAF_SIGNATURE"),
			Literal("UNABLE_TO_GET_ISSUER_CERT_LOCALLY"),
			Literal("UNABLE_TO_GET_ISSUER_CERT"),
		}},
		{Kind: KindCertSelfSignedInChain, Matchers: []Matcher{
			Literal("SELF_SIGNED_CERT_IN_CHAIN"),
		}},
		{Kind: KindInvalidSSLCertificate, Matchers: []Matcher{
			Literal("ERR_TLS_CERT_ALTNAME_INVALID"),
			Literal("ERR_SSL_WRONG_VERSION_NUMBER"),
		}},
		{Kind: KindAuthTimeout, Matchers: []Matcher{
			Literal("AUTH_TIMEOUT"),
			Literal("SESSION_TIMEOUT"),
		}},
		{Kind: KindAuth, Matchers: []Matcher{
			Pattern(`\b401\b`, "401"),
			Literal("Unauthorized"),
		}},
		{Kind: KindForbidden, Matchers: []Matcher{
			Pattern(`\b403\b`, "403"),
			Literal("Forbidden"),
		}},
		{Kind: KindTimeout, Matchers: []Matcher{
			Literal("ETIMEDOUT"),
			Literal("ECONNABORTED"),
			Literal("ESOCKETTIMEDOUT"),
			Pattern(`^timeout of \d+ms exceeded`, "timeout of 5000ms exceeded"),
			Pattern(`\b408\b`, "408"),
		}},
		{Kind: KindConnection, Matchers: []Matcher{
			Literal("ECONNREFUSED"),
			Literal("ECONNRESET"),
			Literal("EHOSTUNREACH"),
			Literal("ENETUNREACH"),
			Literal("ERR_NETWORK"),
			Literal("socket hang up"),
		}},
		{Kind: KindNoSuchHost, Matchers: []Matcher{
			Literal("ENOTFOUND"),
			Literal("EAI_AGAIN"),
			Literal("no such host"),
		}},
		{Kind: KindRedirect, Matchers: []Matcher{
			Pattern(`\b30[12378]\b`, "302"),
		}},
		{Kind: KindInvalidURL, Matchers: []Matcher{
			Literal("ERR_INVALID_URL"),
			Literal("Invalid URL"),
		}},
		{Kind: KindODataURLNotFound, Matchers: []Matcher{
			Literal("ODATA_URL_NOT_FOUND"),
		}},
		{Kind: KindNotFound, Matchers: []Matcher{
			Pattern(`\b404\b`, "404"),
			Literal("Not Found"),
		}},
		{Kind: KindBadRequest, Matchers: []Matcher{
			Pattern(`\b400\b`, "400"),
			Literal("Bad Request"),
		}},
		{Kind: KindInternalServerError, Matchers: []Matcher{
			Pattern(`\b500\b`, "500"),
			Literal("Internal Server Error"),
		}},
		{Kind: KindBadGateway, Matchers: []Matcher{
			Pattern(`\b502\b`, "502"),
			Literal("Bad Gateway"),
		}},
		{Kind: KindServiceUnavailable, Matchers: []Matcher{
			Pattern(`\b503\b`, "503"),
			Literal("Service Unavailable"),
		}},
		{Kind: KindGatewayTimeout, Matchers: []Matcher{
			Pattern(`\b504\b`, "504"),
			Literal("Gateway Timeout"),
		}},
		{Kind: KindServerHTTPError, Matchers: []Matcher{
			Pattern(`\b5\d\d\b`, "599"),
		}},
		{Kind: KindServicesUnavailable},
		{Kind: KindCatalogServiceNotActive, Matchers: []Matcher{
			Literal("/IWFND/MED/170"),
		}},
		{Kind: KindDestinationUnavailable},
		{Kind: KindDestinationNotFound},
		{Kind: KindDestinationMisconfigured},
		{Kind: KindDestinationServiceUnavailable},
		{Kind: KindDestinationConnectionError},
		{Kind: KindNoV2Services},
		{Kind: KindNoV4Services},
		{Kind: KindNoAbapEnvironments},
		{Kind: KindTokenFetchFailed, Matchers: []Matcher{
			Literal("invalid_grant"),
			Literal("invalid_client"),
		}},
		{Kind: KindAbapEnvsUnavailable},
		{Kind: KindUnknown},
	}
}
