package svcerr

import (
	"bytes"
	"context"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"os"
	"syscall"
)

// nativeCode maps Go transport and TLS errors onto the symbolic codes used in
// the pattern table, so errors from net/http clients classify the same way
// as coded errors from other HTTP stacks.
//
//nolint:gocyclo,cyclop // flat mapping, one branch per error family
func nativeCode(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return "ERR_TLS_CERT_ALTNAME_INVALID", true
	}

	var invalidErr x509.CertificateInvalidError
	if errors.As(err, &invalidErr) {
		if invalidErr.Reason == x509.Expired {
			return "CERT_HAS_EXPIRED", true
		}
		return "CERT_REJECTED", true
	}

	var authorityErr x509.UnknownAuthorityError
	if errors.As(err, &authorityErr) {
		if c := authorityErr.Cert; c != nil && bytes.Equal(c.RawIssuer, c.RawSubject) {
			return "DEPTH_ZERO_SELF_SIGNED_CERT", true
		}
		return "UNABLE_TO_GET_ISSUER_CERT_LOCALLY", true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return "ENOTFOUND", true
		}
		if dnsErr.IsTimeout || dnsErr.IsTemporary {
			return "EAI_AGAIN", true
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return "ERR_INVALID_URL", true
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "ECONNREFUSED", true
	case errors.Is(err, syscall.ECONNRESET):
		return "ECONNRESET", true
	case errors.Is(err, syscall.EHOSTUNREACH):
		return "EHOSTUNREACH", true
	case errors.Is(err, syscall.ENETUNREACH):
		return "ENETUNREACH", true
	case errors.Is(err, syscall.ECONNABORTED):
		return "ECONNABORTED", true
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return "ETIMEDOUT", true
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "ECONNRESET", true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "ETIMEDOUT", true
	}

	return "", false
}
