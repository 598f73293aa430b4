package samples

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// DefaultEchoMessage is sent by make_request when no message is given.
const DefaultEchoMessage = "TEST MESSAGE"

func registerEndpoints(r *Registry, d Deps) {
	reg := func(name, summary string, run RunFunc, params ...sample.Param) {
		r.Register(sample.Sample{Name: name, Product: ProductEndpoints, Summary: summary, Params: params}, run)
	}

	reg("make_request", "Call the echo method of a Cloud Endpoints API with an API key.",
		func(ctx context.Context, args sample.Args, out io.Writer) error {
			target, err := echoURL(args.String("HOST"), args.String("API_KEY"))
			if err != nil {
				return err
			}
			body, err := json.Marshal(map[string]string{"message": args.String("MESSAGE")})
			if err != nil {
				return fmt.Errorf("encoding request: %w", err)
			}
			return with(ctx, d.Clients.Endpoints, func(c ports.EndpointInvoker) error {
				resp, err := c.Invoke(ctx, ports.EndpointRequest{
					Method: http.MethodPost,
					URL:    target,
					Header: http.Header{"Content-Type": {"application/json"}},
					Body:   body,
				})
				if err != nil {
					return err
				}
				return printResponse(out, resp)
			})
		},
		param("HOST", "API host, e.g. https://my-api.endpoints.my-project.cloud.goog"),
		param("API_KEY", "API key"),
		optional("MESSAGE", "message to echo", DefaultEchoMessage))

	reg("invoke_authenticated", "Call a service that requires a Google-signed ID token.",
		func(ctx context.Context, args sample.Args, out io.Writer) error {
			target := args.String("URL")
			if _, err := url.ParseRequestURI(target); err != nil {
				return domain.NewValidationError("URL", fmt.Sprintf("invalid URL %q", target))
			}
			audience := args.String("AUDIENCE")
			if audience == "" {
				audience = target
			}
			return with(ctx, d.Clients.Endpoints, func(c ports.EndpointInvoker) error {
				resp, err := c.Invoke(ctx, ports.EndpointRequest{
					Method:   http.MethodGet,
					URL:      target,
					Audience: audience,
				})
				if err != nil {
					return err
				}
				return printResponse(out, resp)
			})
		},
		param("URL", "service URL"),
		optional("AUDIENCE", "token audience, defaults to URL", ""))
}

// echoURL builds HOST/echo?key=API_KEY. A scheme-less host is treated as https.
func echoURL(host, apiKey string) (string, error) {
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return "", domain.NewValidationError("HOST", fmt.Sprintf("invalid host %q", host))
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/echo"
	u.RawQuery = url.Values{"key": {apiKey}}.Encode()
	return u.String(), nil
}

func printResponse(out io.Writer, resp *ports.EndpointResponse) error {
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: endpoint returned %d: %s",
			statusError(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}
	printf(out, "%s", resp.Body)
	return nil
}

func statusError(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		if code < http.StatusInternalServerError {
			return domain.ErrValidation
		}
		return domain.ErrUnavailable
	}
}
