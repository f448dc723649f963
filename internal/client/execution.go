package client

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"net/http"
	"os"

	"github.com/antonio-alexander/go-employee-directory/internal/data"

	"github.com/pkg/errors"
)

func getCertificates(sslCrtFile, sslKeyFile string) ([]tls.Certificate, error) {
	if sslCrtFile == "" || sslKeyFile == "" {
		return []tls.Certificate{}, nil
	}
	certificate, err := tls.LoadX509KeyPair(sslCrtFile, sslKeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load client certificate")
	}
	return []tls.Certificate{certificate}, nil
}

func getCaCert(sslCaFile string) (*x509.CertPool, error) {
	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if sslCaFile != "" {
		bytes, err := os.ReadFile(sslCaFile)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read ca file %s", sslCaFile)
		}
		if !caCertPool.AppendCertsFromPEM(bytes) {
			return nil, errors.Errorf("no certificates found in %s", sslCaFile)
		}
	}
	return caCertPool, nil
}

// getTransport returns the default transport unless a ca file or a client
// certificate is configured.
func getTransport(sslCaFile, sslCrtFile, sslKeyFile string) (http.RoundTripper, error) {
	if sslCaFile == "" && (sslCrtFile == "" || sslKeyFile == "") {
		return http.DefaultTransport, nil
	}
	caCertPool, err := getCaCert(sslCaFile)
	if err != nil {
		return nil, err
	}
	certificates, err := getCertificates(sslCrtFile, sslKeyFile)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		// TLS versions below 1.2 are considered insecure
		// see https://www.rfc-editor.org/rfc/rfc7525.txt for details
		MinVersion:   tls.VersionTLS12,
		RootCAs:      caCertPool,
		Certificates: certificates,
	}
	return transport, nil
}

// responseError converts a non-2xx response into an error; well known
// status codes wrap the matching sentinel so callers can use errors.Is.
func responseError(statusCode int, bytes []byte) error {
	var errorResponse data.ErrorResponse
	var validationErrors data.ValidationErrors

	switch statusCode {
	case http.StatusBadRequest:
		if err := json.Unmarshal(bytes, &validationErrors); err == nil && len(validationErrors) > 0 {
			if _, ok := validationErrors["error"]; !ok {
				return errors.WithMessagef(validationErrors, "status code: %d", statusCode)
			}
		}
	case http.StatusNotFound:
		return errors.WithMessagef(data.ErrEmployeeNotFound, "status code: %d", statusCode)
	case http.StatusForbidden:
		return errors.WithMessagef(data.ErrMutationDisabled, "status code: %d", statusCode)
	}
	if err := json.Unmarshal(bytes, &errorResponse); err == nil && errorResponse.Error != "" {
		return errors.Errorf("status code: %d; %s", statusCode, errorResponse.Error)
	}
	return errors.Errorf("status code: %d; %s", statusCode, string(bytes))
}
