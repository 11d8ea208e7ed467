package svcerr

// ErrorKind identifies a category of failure observed while talking to a
// remote service. Kinds are string-based for debuggability and natural JSON
// serialization.
type ErrorKind string

// The order of this block is mirrored by Kinds and defines classification
// precedence: more specific kinds must come before the general ones that
// would also match the same value.
const (
	// Certificate errors.

	// KindCert indicates a generic certificate verification failure.
	KindCert ErrorKind = "Cert"

	// KindCertExpired indicates the server presented an expired certificate.
	KindCertExpired ErrorKind = "CertExpired"

	// KindCertSelfSigned indicates the server presented a self-signed certificate.
	KindCertSelfSigned ErrorKind = "CertSelfSigned"

	// KindCertUnknownOrInvalid indicates the certificate issuer is unknown or the certificate is invalid.
	KindCertUnknownOrInvalid ErrorKind = "CertUnknownOrInvalid"

	// KindCertSelfSignedInChain indicates a self-signed certificate in the chain.
	KindCertSelfSignedInChain ErrorKind = "CertSelfSignedInChain"

	// KindInvalidSSLCertificate indicates the certificate does not match the host.
	KindInvalidSSLCertificate ErrorKind = "InvalidSslCertificate"

	// Authentication errors.

	// KindAuthTimeout indicates an authorization session expired.
	KindAuthTimeout ErrorKind = "AuthTimeout"

	// KindAuth indicates the request was rejected for lack of valid credentials.
	KindAuth ErrorKind = "Auth"

	// KindForbidden indicates the authenticated user may not access the resource.
	KindForbidden ErrorKind = "Forbidden"

	// Transport errors.

	// KindTimeout indicates the connection or request timed out.
	KindTimeout ErrorKind = "Timeout"

	// KindConnection indicates the connection was refused or reset.
	KindConnection ErrorKind = "Connection"

	// KindNoSuchHost indicates the host name could not be resolved.
	KindNoSuchHost ErrorKind = "NoSuchHost"

	// KindRedirect indicates the server answered with a 3xx status.
	KindRedirect ErrorKind = "Redirect"

	// KindInvalidURL indicates the URL could not be parsed.
	KindInvalidURL ErrorKind = "InvalidUrl"

	// HTTP status errors.

	// KindODataURLNotFound indicates the OData service URL does not exist.
	KindODataURLNotFound ErrorKind = "OdataUrlNotFound"

	// KindNotFound indicates a 404 response.
	KindNotFound ErrorKind = "NotFound"

	// KindBadRequest indicates a 400 response.
	KindBadRequest ErrorKind = "BadRequest"

	// KindInternalServerError indicates a 500 response.
	KindInternalServerError ErrorKind = "InternalServerError"

	// KindBadGateway indicates a 502 response.
	KindBadGateway ErrorKind = "BadGateway"

	// KindServiceUnavailable indicates a 503 response.
	KindServiceUnavailable ErrorKind = "ServiceUnavailable"

	// KindGatewayTimeout indicates a 504 response.
	KindGatewayTimeout ErrorKind = "GatewayTimeout"

	// KindServerHTTPError is the catch-all for any other 5xx response.
	KindServerHTTPError ErrorKind = "ServerHttpError"

	// Service catalog errors.

	// KindServicesUnavailable indicates the service catalog could not be listed.
	KindServicesUnavailable ErrorKind = "ServicesUnavailable"

	// KindCatalogServiceNotActive indicates the catalog service is not activated on the system.
	KindCatalogServiceNotActive ErrorKind = "CatalogServiceNotActive"

	// Destination errors.

	KindDestinationUnavailable        ErrorKind = "DestinationUnavailable"
	KindDestinationNotFound           ErrorKind = "DestinationNotFound"
	KindDestinationMisconfigured      ErrorKind = "DestinationMisconfigured"
	KindDestinationServiceUnavailable ErrorKind = "DestinationServiceUnavailable"
	KindDestinationConnectionError    ErrorKind = "DestinationConnectionError"

	// Discovery errors.

	KindNoV2Services        ErrorKind = "NoV2Services"
	KindNoV4Services        ErrorKind = "NoV4Services"
	KindNoAbapEnvironments  ErrorKind = "NoAbapEnvironments"
	KindTokenFetchFailed    ErrorKind = "TokenFetchFailed"
	KindAbapEnvsUnavailable ErrorKind = "AbapEnvsUnavailable"

	// KindUnknown is the fallback when no other kind matches.
	KindUnknown ErrorKind = "Unknown"
)

// declaredKinds is the single source of truth for kind precedence.
var declaredKinds = []ErrorKind{
	KindCert,
	KindCertExpired,
	KindCertSelfSigned,
	KindCertUnknownOrInvalid,
	KindCertSelfSignedInChain,
	KindInvalidSSLCertificate,
	KindAuthTimeout,
	KindAuth,
	KindForbidden,
	KindTimeout,
	KindConnection,
	KindNoSuchHost,
	KindRedirect,
	KindInvalidURL,
	KindODataURLNotFound,
	KindNotFound,
	KindBadRequest,
	KindInternalServerError,
	KindBadGateway,
	KindServiceUnavailable,
	KindGatewayTimeout,
	KindServerHTTPError,
	KindServicesUnavailable,
	KindCatalogServiceNotActive,
	KindDestinationUnavailable,
	KindDestinationNotFound,
	KindDestinationMisconfigured,
	KindDestinationServiceUnavailable,
	KindDestinationConnectionError,
	KindNoV2Services,
	KindNoV4Services,
	KindNoAbapEnvironments,
	KindTokenFetchFailed,
	KindAbapEnvsUnavailable,
	KindUnknown,
}

var kindIndex = func() map[ErrorKind]int {
	idx := make(map[ErrorKind]int, len(declaredKinds))
	for i, k := range declaredKinds {
		idx[k] = i
	}
	return idx
}()

// Kinds returns every declared kind in precedence order.
// The returned slice is a copy and may be modified by the caller.
func Kinds() []ErrorKind {
	out := make([]ErrorKind, len(declaredKinds))
	copy(out, declaredKinds)
	return out
}

// Valid reports whether k is a declared kind.
func (k ErrorKind) Valid() bool {
	_, ok := kindIndex[k]
	return ok
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	return string(k)
}

var certificateKinds = map[ErrorKind]struct{}{
	KindCert:                  {},
	KindCertExpired:           {},
	KindCertSelfSigned:        {},
	KindCertUnknownOrInvalid:  {},
	KindCertSelfSignedInChain: {},
}

// IsCertificate reports whether k belongs to the certificate family.
// KindInvalidSSLCertificate is not a member.
func (k ErrorKind) IsCertificate() bool {
	_, ok := certificateKinds[k]
	return ok
}
