package reportingclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/pkg/crypto"
	"github.com/gaze-network/auctionhouse/pkg/httpclient"
	"github.com/gaze-network/auctionhouse/pkg/logger"
)

type Config struct {
	Disabled     bool         `mapstructure:"disabled"`
	ReportCenter ReportCenter `mapstructure:"report_center"`
	NodeInfo     NodeInfo     `mapstructure:"node_info"`

	// PrivateKeyPath is a file holding the hex encoded private key of this node, see `generate-keypair`.
	PrivateKeyPath string `mapstructure:"private_key_path"`
}

type NodeInfo struct {
	Name       string `mapstructure:"name"`
	WebsiteURL string `mapstructure:"website_url"`
	APIURL     string `mapstructure:"api_url"`
}

type ReportCenter struct {
	BaseURL   string `mapstructure:"base_url"`
	PublicKey string `mapstructure:"public_key"`
}

type ReportingClient struct {
	httpClient   *httpclient.Client
	cryptoClient *crypto.Client
	config       Config
}

const (
	defaultBaseURL   = "https://indexer.api.gaze.network"
	defaultPublicKey = "0251e2dfcdeea17cc9726e4be0855cd0bae19e64f3e247b10760cd76851e7df47e"
)

func New(config Config) (*ReportingClient, error) {
	config.ReportCenter.BaseURL = utils.Default(config.ReportCenter.BaseURL, defaultBaseURL)
	config.ReportCenter.PublicKey = utils.Default(config.ReportCenter.PublicKey, defaultPublicKey)
	if config.NodeInfo.Name == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "reporting.node_info.name config is required if reporting is enabled")
	}

	httpClient, err := httpclient.New(config.ReportCenter.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}

	privateKey, err := readPrivateKey(config.PrivateKeyPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cryptoClient, err := crypto.New(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "can't create crypto client")
	}
	return &ReportingClient{
		httpClient:   httpClient,
		config:       config,
		cryptoClient: cryptoClient,
	}, nil
}

func readPrivateKey(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(errors.Mark(err, errs.InvalidArgument), "can't read private key file %q", path)
	}
	return strings.TrimSpace(string(data)), nil
}

type SubmitEventReportPayload struct {
	EncryptedData   string `json:"encryptedData"`
	NodePublicKey   string `json:"nodePublicKey,omitempty"`
	ReportSignature string `json:"reportSignature,omitempty"`
}

// SubmitEventReportPayloadData summarizes a range of the event log. EventHash covers
// the events of the range, CumulativeEventHash chains it to every previous range.
type SubmitEventReportPayloadData struct {
	Type                string         `json:"type"`
	ClientVersion       string         `json:"clientVersion"`
	DBVersion           int            `json:"dbVersion"`
	EventHashVersion    int            `json:"eventHashVersion"`
	EngineAddress       common.Address `json:"engineAddress"`
	FromSequence        uint64         `json:"fromSequence"`
	ToSequence          uint64         `json:"toSequence"`
	TotalEvents         int            `json:"totalEvents"`
	EventHash           common.Hash    `json:"eventHash"`
	CumulativeEventHash common.Hash    `json:"cumulativeEventHash"`
	NodePublicKey       string         `json:"nodePublicKey,omitempty"`
}

func (r *ReportingClient) SubmitEventReport(ctx context.Context, payload SubmitEventReportPayloadData) error {
	payload.NodePublicKey = r.cryptoClient.PublicKey()
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}

	encryptedData, err := r.cryptoClient.Encrypt(string(data), r.config.ReportCenter.PublicKey)
	if err != nil {
		return errors.Wrap(err, "can't encrypt data")
	}
	bodyStruct := SubmitEventReportPayload{
		EncryptedData: encryptedData,
		NodePublicKey: payload.NodePublicKey,
	}
	if payload.NodePublicKey != "" {
		if bodyStruct.ReportSignature, err = r.cryptoClient.Sign(string(data)); err != nil {
			return errors.Wrap(err, "can't sign report")
		}
	}
	body, err := json.Marshal(bodyStruct)
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}
	resp, err := r.httpClient.Post(ctx, "/v2/report/auctionhouse", httpclient.RequestOptions{
		Body: body,
	})
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}
	if resp.StatusCode() >= 400 {
		logger.WarnContext(ctx, "failed to submit event report", slog.Any("payload", payload), slog.String("responseBody", string(resp.Body())))
		return errors.Errorf("report center responded with status %d", resp.StatusCode())
	}
	logger.DebugContext(ctx, "event report submitted", slog.Any("payload", payload))
	return nil
}

type SubmitNodeReportPayload struct {
	Data          SubmitNodeReportPayloadData `json:"data"`
	NodePublicKey string                      `json:"nodePublicKey,omitempty"`
	Signature     string                      `json:"signature,omitempty"`
}

type SubmitNodeReportPayloadData struct {
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	EngineAddress common.Address `json:"engineAddress"`
	WebsiteURL    string         `json:"websiteUrl,omitempty"`
	APIURL        string         `json:"apiUrl,omitempty"`
}

func (r *ReportingClient) SubmitNodeReport(ctx context.Context, module string, engine common.Address) error {
	payload := SubmitNodeReportPayload{
		Data: SubmitNodeReportPayloadData{
			Name:          r.config.NodeInfo.Name,
			Type:          module,
			EngineAddress: engine,
			WebsiteURL:    r.config.NodeInfo.WebsiteURL,
			APIURL:        r.config.NodeInfo.APIURL,
		},
		NodePublicKey: r.cryptoClient.PublicKey(),
	}

	dataPayload, err := json.Marshal(payload.Data)
	if err != nil {
		return errors.Wrap(err, "can't marshal payload data")
	}
	if payload.NodePublicKey != "" {
		if payload.Signature, err = r.cryptoClient.Sign(string(dataPayload)); err != nil {
			return errors.Wrap(err, "can't sign node report")
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}
	resp, err := r.httpClient.Post(ctx, "/v2/report/node", httpclient.RequestOptions{
		Body: body,
	})
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}
	if resp.StatusCode() >= 400 {
		logger.WarnContext(ctx, "failed to submit node report", slog.Any("payload", payload), slog.String("responseBody", string(resp.Body())))
		return errors.Errorf("report center responded with status %d", resp.StatusCode())
	}
	logger.InfoContext(ctx, "node report submitted", slog.Any("payload", payload))
	return nil
}
