package svcerr

import (
	"strings"

	"github.com/jmgilman/go/svcerr/i18n"
)

// messageTemplate describes how a kind's message is rendered.
type messageTemplate struct {
	key string

	// fixed templates take no parameters; the raw failure is ignored.
	fixed bool

	// server templates are embedded in the shared "server returned an error" sentence.
	server bool
}

const serverErrorKey = "errors.serverReturnedAnError"

var messageTemplates = map[ErrorKind]messageTemplate{
	KindCert:                          {key: "errors.certificateError"},
	KindCertExpired:                   {key: "errors.certificateExpired", fixed: true},
	KindCertSelfSigned:                {key: "errors.certificateSelfSigned", fixed: true},
	KindCertUnknownOrInvalid:          {key: "errors.certificateUnknownOrInvalid", fixed: true},
	KindCertSelfSignedInChain:         {key: "errors.certificateSelfSignedInChain", fixed: true},
	KindInvalidSSLCertificate:         {key: "errors.invalidSslCertificate"},
	KindAuthTimeout:                   {key: "errors.authTimeout", fixed: true},
	KindAuth:                          {key: "errors.authenticationFailed"},
	KindForbidden:                     {key: "errors.forbidden"},
	KindTimeout:                       {key: "errors.timeout"},
	KindConnection:                    {key: "errors.connection"},
	KindNoSuchHost:                    {key: "errors.noSuchHost"},
	KindRedirect:                      {key: "errors.redirect"},
	KindInvalidURL:                    {key: "errors.invalidUrl", fixed: true},
	KindODataURLNotFound:              {key: "errors.odataServiceUrlNotFound", fixed: true},
	KindNotFound:                      {key: "errors.urlNotFound", fixed: true},
	KindBadRequest:                    {key: "errors.badRequest", server: true},
	KindInternalServerError:           {key: "errors.internalServerError", server: true},
	KindBadGateway:                    {key: "errors.badGateway", server: true},
	KindServiceUnavailable:            {key: "errors.serviceUnavailable", server: true},
	KindGatewayTimeout:                {key: "errors.gatewayTimeout", server: true},
	KindServerHTTPError:               {key: "errors.serverHttpError", server: true},
	KindServicesUnavailable:           {key: "errors.servicesUnavailable"},
	KindCatalogServiceNotActive:       {key: "errors.catalogServiceNotActive", fixed: true},
	KindDestinationUnavailable:        {key: "errors.destination.unavailable"},
	KindDestinationNotFound:           {key: "errors.destination.notFound", fixed: true},
	KindDestinationMisconfigured:      {key: "errors.destination.misconfigured"},
	KindDestinationServiceUnavailable: {key: "errors.destination.serviceUnavailable", fixed: true},
	KindDestinationConnectionError:    {key: "errors.destination.connectionError"},
	KindNoV2Services:                  {key: "errors.noV2Services", fixed: true},
	KindNoV4Services:                  {key: "errors.noV4Services", fixed: true},
	KindNoAbapEnvironments:            {key: "errors.noAbapEnvironments", fixed: true},
	KindTokenFetchFailed:              {key: "errors.tokenFetchFailed"},
	KindAbapEnvsUnavailable:           {key: "errors.abapEnvsUnavailable"},
	KindUnknown:                       {key: "errors.unknownError"},
}

// Message renders the end-user message for kind. raw, when not nil, is the
// failure the kind was derived from; its extracted value is interpolated into
// templates that describe the failure. Without raw the kind name is used.
// Undeclared kinds render with the KindUnknown template. The result is never
// empty.
func Message(tr i18n.Translator, kind ErrorKind, raw any) string {
	tmpl, ok := messageTemplates[kind]
	if !ok {
		tmpl = messageTemplates[KindUnknown]
	}

	var msg string
	switch {
	case tmpl.fixed:
		msg = tr.Translate(tmpl.key, nil)
	case tmpl.server:
		desc := tr.Translate(tmpl.key, i18n.Params{"error": describe(kind, raw)})
		msg = tr.Translate(serverErrorKey, i18n.Params{"errorDesc": desc})
	default:
		msg = tr.Translate(tmpl.key, i18n.Params{"error": describe(kind, raw)})
	}

	if strings.TrimSpace(msg) == "" {
		return tmpl.key
	}
	return msg
}

func describe(kind ErrorKind, raw any) string {
	if raw == nil {
		return string(kind)
	}
	if v := Extract(raw); v != "" {
		return v
	}
	return string(kind)
}
