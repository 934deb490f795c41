package githubauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ravdin/repolens/internal/execshell"
)

const (
	appJWTIssuedAtBackdateConstant              = 60 * time.Second
	appJWTLifetimeConstant                      = 9 * time.Minute
	installationTokenEndpointTemplateConstant   = "https://api.github.com/app/installations/%s/access_tokens"
	authorizationHeaderTemplateConstant         = "Authorization: Bearer %s"
	acceptHeaderValueConstant                   = "Accept: application/vnd.github+json"
	apiVersionHeaderValueConstant               = "X-GitHub-Api-Version: 2022-11-28"
	curlSilentFlagConstant                      = "-sS"
	curlMethodFlagConstant                      = "-X"
	curlHeaderFlagConstant                      = "-H"
	httpPostMethodConstant                      = "POST"
	appCredentialsIncompleteMessageConstant     = "github app credentials require identifier, installation, and private key path"
	curlExecutorNotConfiguredMessageConstant    = "curl executor not configured"
	privateKeyLoadErrorTemplateConstant         = "unable to load github app private key from %s: %s"
	privateKeyParseErrorTemplateConstant        = "unable to parse github app private key from %s: %s"
	appJWTSigningErrorTemplateConstant          = "unable to sign github app token: %s"
	tokenExchangeErrorTemplateConstant          = "installation token exchange for installation %s failed: %s"
	tokenExchangeRejectionDetailConstant        = "github rejected the exchange"
	tokenExchangeRejectionWithMessageTemplate   = "github rejected the exchange: %s"
	tokenExchangeResponseDecodingDetailTemplate = "response decoding failed: %s"
)

// Sentinel errors for misconfigured App authentication dependencies.
var (
	ErrCurlExecutorNotConfigured = errors.New(curlExecutorNotConfiguredMessageConstant)
	ErrAppCredentialsIncomplete  = errors.New(appCredentialsIncompleteMessageConstant)
)

// AppCredentials identifies a GitHub App installation and its signing key.
type AppCredentials struct {
	Identifier     string
	Installation   string
	PrivateKeyPath string
}

// Complete reports whether every credential component carries a value.
func (credentials AppCredentials) Complete() bool {
	return len(strings.TrimSpace(credentials.Identifier)) > 0 &&
		len(strings.TrimSpace(credentials.Installation)) > 0 &&
		len(strings.TrimSpace(credentials.PrivateKeyPath)) > 0
}

// PrivateKeyError reports failures loading or parsing the App signing key.
type PrivateKeyError struct {
	Path  string
	Parse bool
	Cause error
}

// Error describes the private key failure.
func (keyError PrivateKeyError) Error() string {
	if keyError.Parse {
		return fmt.Sprintf(privateKeyParseErrorTemplateConstant, keyError.Path, keyError.Cause)
	}
	return fmt.Sprintf(privateKeyLoadErrorTemplateConstant, keyError.Path, keyError.Cause)
}

// Unwrap exposes the underlying cause.
func (keyError PrivateKeyError) Unwrap() error {
	return keyError.Cause
}

// TokenExchangeError reports failures obtaining an installation token.
type TokenExchangeError struct {
	Installation string
	Cause        error
}

// Error describes the exchange failure.
func (exchangeError TokenExchangeError) Error() string {
	return fmt.Sprintf(tokenExchangeErrorTemplateConstant, exchangeError.Installation, exchangeError.Cause)
}

// Unwrap exposes the underlying cause.
func (exchangeError TokenExchangeError) Unwrap() error {
	return exchangeError.Cause
}

// CurlCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type CurlCommandExecutor interface {
	ExecuteCurl(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// AppTokenSource exchanges GitHub App credentials for installation tokens.
type AppTokenSource struct {
	executor     CurlCommandExecutor
	timeProvider func() time.Time
}

// NewAppTokenSource constructs an AppTokenSource around the provided curl executor.
func NewAppTokenSource(executor CurlCommandExecutor) (*AppTokenSource, error) {
	if executor == nil {
		return nil, ErrCurlExecutorNotConfigured
	}
	return &AppTokenSource{executor: executor, timeProvider: time.Now}, nil
}

// SetTimeProvider overrides the clock used when minting App tokens.
func (tokenSource *AppTokenSource) SetTimeProvider(timeProvider func() time.Time) {
	if tokenSource == nil || timeProvider == nil {
		return
	}
	tokenSource.timeProvider = timeProvider
}

// MintAppJWT signs a short-lived App authentication token with the configured private key.
func (tokenSource *AppTokenSource) MintAppJWT(credentials AppCredentials) (string, error) {
	privateKeyPath := strings.TrimSpace(credentials.PrivateKeyPath)
	privateKeyData, readError := os.ReadFile(privateKeyPath)
	if readError != nil {
		return "", PrivateKeyError{Path: privateKeyPath, Cause: readError}
	}

	privateKey, parseError := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if parseError != nil {
		return "", PrivateKeyError{Path: privateKeyPath, Parse: true, Cause: parseError}
	}

	issuedAt := tokenSource.timeProvider().Add(-appJWTIssuedAtBackdateConstant)
	claims := jwt.RegisteredClaims{
		Issuer:    strings.TrimSpace(credentials.Identifier),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(appJWTIssuedAtBackdateConstant + appJWTLifetimeConstant)),
	}

	signedToken, signingError := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(privateKey)
	if signingError != nil {
		return "", fmt.Errorf(appJWTSigningErrorTemplateConstant, signingError)
	}

	return signedToken, nil
}

// ResolveInstallationToken mints an App token and exchanges it for an installation access token.
func (tokenSource *AppTokenSource) ResolveInstallationToken(executionContext context.Context, credentials AppCredentials) (string, error) {
	if !credentials.Complete() {
		return "", ErrAppCredentialsIncomplete
	}

	installationIdentifier := strings.TrimSpace(credentials.Installation)

	appToken, mintError := tokenSource.MintAppJWT(credentials)
	if mintError != nil {
		return "", TokenExchangeError{Installation: installationIdentifier, Cause: mintError}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			curlSilentFlagConstant,
			curlMethodFlagConstant,
			httpPostMethodConstant,
			fmt.Sprintf(installationTokenEndpointTemplateConstant, installationIdentifier),
			curlHeaderFlagConstant,
			fmt.Sprintf(authorizationHeaderTemplateConstant, appToken),
			curlHeaderFlagConstant,
			acceptHeaderValueConstant,
			curlHeaderFlagConstant,
			apiVersionHeaderValueConstant,
		},
	}

	executionResult, executionError := tokenSource.executor.ExecuteCurl(executionContext, commandDetails)
	if executionError != nil {
		return "", TokenExchangeError{Installation: installationIdentifier, Cause: executionError}
	}

	var response struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return "", TokenExchangeError{
			Installation: installationIdentifier,
			Cause:        fmt.Errorf(tokenExchangeResponseDecodingDetailTemplate, decodingError),
		}
	}

	if len(strings.TrimSpace(response.Token)) == 0 {
		rejectionDetail := tokenExchangeRejectionDetailConstant
		if len(strings.TrimSpace(response.Message)) > 0 {
			rejectionDetail = fmt.Sprintf(tokenExchangeRejectionWithMessageTemplate, response.Message)
		}
		return "", TokenExchangeError{Installation: installationIdentifier, Cause: errors.New(rejectionDetail)}
	}

	return response.Token, nil
}
