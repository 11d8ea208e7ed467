package svcerr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmgilman/go/svcerr"
	"github.com/jmgilman/go/svcerr/config"
)

func ExampleClassifyValue() {
	fmt.Println(svcerr.ClassifyValue("DEPTH_ZERO_SELF_SIGNED_CERT"))
	fmt.Println(svcerr.ClassifyValue(503))
	fmt.Println(svcerr.ClassifyValue("etimedout"))
	// Output:
	// CertSelfSigned
	// ServiceUnavailable
	// Unknown
}

func ExampleIsCertificateError() {
	fmt.Println(svcerr.IsCertificateError("CERT_HAS_EXPIRED"))
	fmt.Println(svcerr.IsCertificateError(401))
	// Output:
	// true
	// false
}

func ExampleHandler_LogAndClassify() {
	h := svcerr.New(svcerr.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	msg := h.LogAndClassify(svcerr.Raw(&svcerr.HTTPError{
		Response: &svcerr.Response{Status: 404},
	}))
	fmt.Println(msg)
	// Output: URL not found
}

func ExampleHandler_HelpFor() {
	cfg := config.Default()
	cfg.GuidedHelp.BaseURL = "https://help.example.com"

	h := svcerr.New(
		svcerr.WithConfig(cfg),
		svcerr.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	h.LogAndClassify(svcerr.Raw("SELF_SIGNED_CERT_IN_CHAIN"))

	help, _ := h.HelpFor(nil, true, nil)
	fmt.Println(help.Link.URL)
	// Output: https://help.example.com/tree/3046/actions/63068:63069/?version=current
}

func ExampleNewError() {
	err := svcerr.NewError(svcerr.KindNoV4Services, "no OData V4 services in catalog")
	fmt.Println(err.Error())
	fmt.Println(svcerr.KindOf(err))
	// Output:
	// [NoV4Services] no OData V4 services in catalog
	// NoV4Services
}

func ExampleKindOf() {
	wrapped := fmt.Errorf("list services: %w", svcerr.NewError(svcerr.KindNoV2Services, "none"))
	fmt.Println(svcerr.KindOf(wrapped))
	fmt.Println(svcerr.KindOf(errors.New("connect ECONNREFUSED 127.0.0.1:443")))
	fmt.Println(svcerr.KindOf(nil))
	// Output:
	// NoV2Services
	// Connection
	// Unknown
}

func ExampleToJSON() {
	err := fmt.Errorf("fetch token: %w", svcerr.NewError(svcerr.KindAuth, "Authentication incorrect: 401"))
	out, _ := json.Marshal(svcerr.ToJSON(err))
	fmt.Println(string(out))
	// Output: {"kind":"Auth","message":"Authentication incorrect: 401"}
}
