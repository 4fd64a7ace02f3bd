package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"outreach-api/core/config"
	"outreach-api/core/constants"
	"outreach-api/core/logger"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
)

// MailReader looks up the most recent correspondence with a prospect. Both
// lookups are optional context for draft generation: the orchestrator
// degrades any failure to an empty string.
type MailReader interface {
	// FetchLatestFromSender returns the newest inbox message from the
	// address, as "subject\nbody". Returns "" when nothing useful exists.
	FetchLatestFromSender(ctx context.Context, address string) (string, error)
	// FetchLatestSentTo returns the newest sent message to the address.
	FetchLatestSentTo(ctx context.Context, address string) (string, error)
}

type imapReader struct {
	cfg config.IMAPConfig
}

func NewIMAPReader(cfg config.IMAPConfig) MailReader {
	return &imapReader{cfg: cfg}
}

func (r *imapReader) FetchLatestFromSender(ctx context.Context, address string) (string, error) {
	return r.fetchLatest(ctx, "INBOX", "From", address)
}

func (r *imapReader) FetchLatestSentTo(ctx context.Context, address string) (string, error) {
	return r.fetchLatest(ctx, r.cfg.SentMailbox, "To", address)
}

// connect dials and authenticates. The caller must Logout on the returned
// client.
func (r *imapReader) connect(_ context.Context) (*imapclient.Client, error) {
	addr := fmt.Sprintf("%s:%d", r.cfg.Host, r.cfg.Port)

	client, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(r.cfg.User, r.cfg.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("IMAP authentication failed for %s: %w", r.cfg.User, err)
	}
	return client, nil
}

func (r *imapReader) fetchLatest(ctx context.Context, mailbox, headerKey, address string) (string, error) {
	client, err := r.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select(mailbox, nil).Wait(); err != nil {
		return "", fmt.Errorf("selecting %s: %w", mailbox, err)
	}

	criteria := &imap.SearchCriteria{
		Header: []imap.SearchCriteriaHeaderField{{Key: headerKey, Value: address}},
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return "", fmt.Errorf("searching %s for %s: %w", mailbox, address, err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return "", nil
	}
	latest := uids[len(uids)-1]

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(imap.UIDSetNum(latest), &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return "", nil
	}
	buf, err := msg.Collect()
	if err != nil {
		return "", fmt.Errorf("collecting message: %w", err)
	}

	subject := ""
	if buf.Envelope != nil {
		subject = buf.Envelope.Subject
	}
	body := ""
	if raw := buf.FindBodySection(bodySection); raw != nil {
		body = extractPlainText(raw)
	}

	text := strings.TrimSpace(subject + "\n" + strings.TrimSpace(body))
	result := MeaningfulText(text)
	logger.Info("MailReader:fetchLatest", "mailbox", mailbox, "header", headerKey, "address", address, "useful", result != "")
	return result, nil
}

// extractPlainText parses a raw RFC 2822 message and returns the first
// inline text/plain part, falling back to the raw bytes when the MIME
// structure cannot be parsed.
func extractPlainText(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		inline, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := inline.ContentType()
		if contentType != "text/plain" {
			continue
		}
		content, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		return string(content)
	}
	return ""
}

// MeaningfulText applies the collaborator contract: content with fewer than
// three whitespace-separated tokens is treated as nothing at all.
func MeaningfulText(s string) string {
	if len(strings.Fields(s)) < constants.MinMeaningfulTokens {
		return ""
	}
	return s
}
