package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// secretParameters maps a config key to the key naming the SSM parameter that holds its value.
var secretParameters = map[string]string{
	"JWT_SECRET": "JWT_SECRET_SSM_PARAMETER",
}

// ParameterStore is the subset of the SSM client used to resolve secrets.
type ParameterStore interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS credential chain.
func NewParameterStore(ctx context.Context) (ParameterStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// NeedsParameterStore reports whether any secret is configured to come from SSM.
func NeedsParameterStore(config map[string]string) bool {
	for _, parameterKey := range secretParameters {
		if GetString(config, parameterKey, "") != "" {
			return true
		}
	}
	return false
}

// ResolveSecrets replaces secrets in config with their SSM values when a
// *_SSM_PARAMETER key is set. Values set directly in the environment win.
func ResolveSecrets(ctx context.Context, config map[string]string, store ParameterStore) error {
	for key, parameterKey := range secretParameters {
		name := GetString(config, parameterKey, "")
		if name == "" || GetString(config, key, "") != "" {
			continue
		}

		out, err := store.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("read ssm parameter %s: %w", name, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return fmt.Errorf("ssm parameter %s has no value", name)
		}

		config[key] = aws.ToString(out.Parameter.Value)
		log.Info().Str("key", key).Str("parameter", name).Msg("secret resolved from parameter store")
	}
	return nil
}
