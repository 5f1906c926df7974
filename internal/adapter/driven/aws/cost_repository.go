package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/diillson/aws-cost-report-go/internal/domain/entity"
	"github.com/diillson/aws-cost-report-go/internal/domain/repository"
	"github.com/diillson/aws-cost-report-go/internal/shared/dates"
	"github.com/diillson/aws-cost-report-go/internal/shared/types"
)

// CostExplorerAPI is the slice of the Cost Explorer client used by the stream.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// STSAPI is the slice of the STS client used for the credential preflight.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CostRepositoryImpl implementa o CostRepository com cache de clientes.
type CostRepositoryImpl struct {
	cfgCache map[string]aws.Config
	ceCache  map[string]CostExplorerAPI
	stsCache map[string]STSAPI
	mu       sync.Mutex
	console  types.ConsoleInterface
}

// NewCostRepository cria uma nova implementação do CostRepository.
func NewCostRepository(console types.ConsoleInterface) repository.CostRepository {
	return &CostRepositoryImpl{
		cfgCache: make(map[string]aws.Config),
		ceCache:  make(map[string]CostExplorerAPI),
		stsCache: make(map[string]STSAPI),
		console:  console,
	}
}

func (r *CostRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	var optFns []func(*config.LoadOptions) error
	if profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		var notExist config.SharedConfigProfileNotExistError
		if errors.As(err, &notExist) {
			return aws.Config{}, fmt.Errorf("%w: %s", types.ErrUnknownProfile, profile)
		}
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *CostRepositoryImpl) getCostExplorerClient(ctx context.Context, profile string) (CostExplorerAPI, error) {
	r.mu.Lock()
	if client, ok := r.ceCache[profile]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	// Cost Explorer is a global API served out of us-east-1.
	regionalCfg := cfg.Copy()
	regionalCfg.Region = "us-east-1"
	client := costexplorer.NewFromConfig(regionalCfg)

	r.mu.Lock()
	r.ceCache[profile] = client
	r.mu.Unlock()

	return client, nil
}

func (r *CostRepositoryImpl) getSTSClient(ctx context.Context, profile string) (STSAPI, error) {
	r.mu.Lock()
	if client, ok := r.stsCache[profile]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}
	client := sts.NewFromConfig(cfg)

	r.mu.Lock()
	r.stsCache[profile] = client
	r.mu.Unlock()

	return client, nil
}

// GetAWSProfiles lists the profiles present in ~/.aws/credentials and ~/.aws/config.
func (r *CostRepositoryImpl) GetAWSProfiles() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return []string{"default"}
	}

	credentialsPath := filepath.Join(homeDir, ".aws", "credentials")
	configPath := filepath.Join(homeDir, ".aws", "config")

	profiles := make(map[string]bool)
	profileRegex := regexp.MustCompile(`\[([^]]+)\]`)

	parseFile := func(path string, isConfig bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		matches := profileRegex.FindAllStringSubmatch(string(content), -1)
		for _, match := range matches {
			profileName := match[1]
			if isConfig {
				profileName = strings.TrimPrefix(profileName, "profile ")
			}
			profiles[profileName] = true
		}
	}

	parseFile(credentialsPath, false)
	parseFile(configPath, true)

	if len(profiles) == 0 {
		profiles["default"] = true
	}

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

// GetAccountID resolves the caller's account via STS. Serves as the credential
// preflight: a failure here means the profile cannot reach AWS at all.
func (r *CostRepositoryImpl) GetAccountID(ctx context.Context, profile string) (string, error) {
	client, err := r.getSTSClient(ctx, profile)
	if err != nil {
		return "", err
	}

	result, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		if isCredentialError(err) {
			return "", fmt.Errorf("%w (profile %q)", types.ErrNoCredentials, profileLabel(profile))
		}
		return "", fmt.Errorf("error getting account ID for profile %s: %w", profileLabel(profile), err)
	}
	return *result.Account, nil
}

// StreamCostRecords opens a lazy record stream over GetCostAndUsage for the
// query's date range, MONTHLY granularity, grouped by linked account and service.
func (r *CostRepositoryImpl) StreamCostRecords(ctx context.Context, query entity.CostQuery) (repository.CostRecordStream, error) {
	client, err := r.getCostExplorerClient(ctx, query.Profile)
	if err != nil {
		return nil, err
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(dates.Format(query.Start)),
			End:   aws.String(dates.Format(query.End)),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("LINKED_ACCOUNT")},
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	}

	return newCostRecordStream(client, input, query.Threshold, r.console), nil
}

func profileLabel(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}

// isCredentialError reports whether the chain failed to produce credentials,
// as opposed to AWS rejecting the request.
func isCredentialError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		// The request reached AWS; whatever went wrong, it was not a missing
		// credential chain.
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException", "InvalidClientTokenId", "ExpiredToken", "UnrecognizedClientException":
			return false
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "credential") || strings.Contains(msg, "no ec2 imds role found")
}
