// Package ssmstore binds the fetch.Store capability to AWS Systems Manager
// Parameter Store via the v2 SDK.
package ssmstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ssmAPI is the slice of the SSM client this package uses. Narrowing the
// dependency keeps the partitioning logic testable without AWS.
type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// Store implements fetch.Store against Parameter Store.
type Store struct {
	client ssmAPI
}

// New builds a Store from the ambient AWS configuration (environment,
// shared config, instance role).
func New(ctx context.Context) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Store{client: ssm.NewFromConfig(cfg)}, nil
}

// NewFromClient wraps an existing SSM client.
func NewFromClient(client *ssm.Client) *Store {
	return &Store{client: client}
}

// GetOne fetches a single decrypted parameter. Absence is reported through
// the boolean, not the error. The decryption key identifier is accepted to
// satisfy fetch.Store; Parameter Store selects the key from the parameter's
// own configuration, so it is not forwarded.
func (s *Store) GetOne(ctx context.Context, name, _ string) (string, bool, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", false, nil
	}
	return *out.Parameter.Value, true, nil
}

// GetMany fetches a batch of decrypted parameters, partitioning the response
// into found values and invalid (missing) names.
func (s *Store) GetMany(ctx context.Context, names []string) (map[string]string, []string, error) {
	out, err := s.client.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("get parameters: %w", err)
	}

	found := make(map[string]string, len(out.Parameters))
	for _, parameter := range out.Parameters {
		if parameter.Name == nil || parameter.Value == nil {
			continue
		}
		found[*parameter.Name] = *parameter.Value
	}
	return found, out.InvalidParameters, nil
}
