package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
)

const DefaultTwilioBaseURL = "https://api.twilio.com"

// TwilioConfig holds the WhatsApp sender credentials.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	// ContentSID selects an approved template; empty forces free text.
	ContentSID string
	BaseURL    string
	Timeout    time.Duration
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

// WhatsAppClient sends WhatsApp messages through the Twilio REST API.
type WhatsAppClient struct {
	cfg      TwilioConfig
	http     *http.Client
	observer Observer
}

func NewWhatsAppClient(cfg TwilioConfig, observer Observer) *WhatsAppClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTwilioBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &WhatsAppClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observerOrNoop(observer),
	}
}

func (c *WhatsAppClient) Name() string { return "whatsapp" }

// twilioMessage is the subset of the Messages resource we read back.
type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// twilioError is the body Twilio returns with a non-2xx status.
type twilioError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func (c *WhatsAppClient) Send(ctx context.Context, msg Message) (Receipt, error) {
	if !c.cfg.Enabled() {
		return Receipt{}, ErrChannelDisabled
	}
	to := domain.NormalizePhone(msg.To)
	if to == "" {
		return Receipt{}, fmt.Errorf("%w: empty whatsapp number", ErrInvalidAddress)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	receipt, err := c.doRequest(ctx, c.form(to, msg))
	if err != nil {
		if ctx.Err() != nil {
			err = ErrTimeout
		} else if isConnectionError(err) {
			err = fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		c.observer.OnDelivery(DeliveryEvent{
			Channel:   c.Name(),
			LatencyMs: time.Since(start).Milliseconds(),
			ErrorCode: errorCode(err),
		})
		return Receipt{}, err
	}

	c.observer.OnDelivery(DeliveryEvent{
		Channel:    c.Name(),
		LatencyMs:  time.Since(start).Milliseconds(),
		Accepted:   receipt.Accepted,
		DeliveryID: receipt.DeliveryID,
		ErrorCode:  receipt.ErrorCode,
	})
	return receipt, nil
}

func (c *WhatsAppClient) form(to string, msg Message) url.Values {
	form := url.Values{}
	form.Set("To", "whatsapp:"+withPlus(to))
	form.Set("From", "whatsapp:"+withPlus(domain.NormalizePhone(strings.TrimPrefix(c.cfg.From, "whatsapp:"))))
	if msg.ForceText || c.cfg.ContentSID == "" {
		form.Set("Body", msg.Body)
		return form
	}
	vars, _ := json.Marshal(map[string]string{"1": msg.TitleHint, "2": msg.Body})
	form.Set("ContentSid", c.cfg.ContentSID)
	form.Set("ContentVariables", string(vars))
	return form
}

func (c *WhatsAppClient) doRequest(ctx context.Context, form url.Values) (Receipt, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(c.cfg.AccountSID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Receipt{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return Receipt{}, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Receipt{}, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		var tErr twilioError
		if err := json.Unmarshal(respBody, &tErr); err != nil || tErr.Code == 0 {
			return Receipt{
				ErrorCode: strconv.Itoa(httpResp.StatusCode),
				Error:     fmt.Sprintf("gateway returned status %d", httpResp.StatusCode),
			}, nil
		}
		return Receipt{
			ErrorCode: strconv.Itoa(tErr.Code),
			Error:     DescribeTwilioError(tErr.Code, tErr.Message),
		}, nil
	}

	var resp twilioMessage
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return Receipt{}, fmt.Errorf("decoding response: %w", err)
	}
	return Receipt{Accepted: true, DeliveryID: resp.SID}, nil
}

func withPlus(number string) string {
	if strings.HasPrefix(number, "+") {
		return number
	}
	return "+" + number
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
