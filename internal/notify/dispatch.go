package notify

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"jobalert/internal/domain"
	"jobalert/internal/scrape/util"

	"github.com/rs/zerolog"
)

// Dispatcher packs ranked postings into as few messages as the character
// budget and per-message cap allow, in rank order, never splitting a block.
type Dispatcher struct {
	Sender        Sender
	Pacer         util.Pacer // between messages
	MaxChars      int        // counted in runes
	MaxPerMessage int        // 0 means no cap
	SignOff       string
	Now           func() time.Time
	Log           zerolog.Logger
}

// Report says which postings reached the chat. Only Delivered may be
// committed to the ledger.
type Report struct {
	Delivered []domain.Posting
	Messages  int // sent
	Failed    int // send errors
	Oversize  int // blocks larger than an empty message
}

// TelegramMaxChars is the Bot API limit on message text.
const TelegramMaxChars = 4096

type batch struct {
	text     strings.Builder
	postings []domain.Posting
}

func (b *batch) runes() int { return utf8.RuneCountInString(b.text.String()) }

// Dispatch sends ranked (already truncated) postings. total is the number of
// new postings before truncation. Send errors are logged, not returned.
func (d *Dispatcher) Dispatch(ctx context.Context, ranked []domain.Posting, total int) Report {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	day := now()

	var rep Report
	if len(ranked) == 0 {
		d.send(ctx, &rep, noResults(day), nil)
		return rep
	}

	limit := d.MaxChars
	if limit <= 0 {
		limit = TelegramMaxChars
	}

	cont := continuedHeader(day)
	contLen := utf8.RuneCountInString(cont)

	cur := &batch{}
	cur.text.WriteString(header(day, total))

	for _, p := range ranked {
		block := Render(p)
		n := utf8.RuneCountInString(block)
		if contLen+n > limit {
			rep.Oversize++
			d.Log.Warn().Str("title", p.Title).Int("chars", n).Msg("posting too long for one message, skipped")
			continue
		}

		full := d.MaxPerMessage > 0 && len(cur.postings) >= d.MaxPerMessage
		if full || cur.runes()+n > limit {
			if !d.flush(ctx, &rep, cur) {
				return rep
			}
			cur = &batch{}
			cur.text.WriteString(cont)
		}
		cur.text.WriteString(block)
		cur.postings = append(cur.postings, p)
	}

	tail := closing(total-len(ranked), d.SignOff)
	if tail != "" && cur.runes()+utf8.RuneCountInString(tail) > limit {
		if !d.flush(ctx, &rep, cur) {
			return rep
		}
		cur = &batch{}
		cur.text.WriteString(cont)
	}
	cur.text.WriteString(tail)
	d.flush(ctx, &rep, cur)
	return rep
}

// flush sends b, pacing after the first message. It reports false once the
// context is done.
func (d *Dispatcher) flush(ctx context.Context, rep *Report, b *batch) bool {
	return d.send(ctx, rep, strings.TrimRight(b.text.String(), "\n"), b.postings)
}

func (d *Dispatcher) send(ctx context.Context, rep *Report, text string, postings []domain.Posting) bool {
	if rep.Messages+rep.Failed > 0 && d.Pacer != nil {
		if err := d.Pacer.Wait(ctx); err != nil {
			d.Log.Warn().Err(err).Int("undelivered", len(postings)).Msg("dispatch interrupted")
			return false
		}
	}

	if err := d.Sender.Send(ctx, text); err != nil {
		rep.Failed++
		d.Log.Error().Err(err).Int("postings", len(postings)).Msg("message not delivered")
		return ctx.Err() == nil
	}
	rep.Messages++
	rep.Delivered = append(rep.Delivered, postings...)
	d.Log.Info().Int("postings", len(postings)).Int("chars", utf8.RuneCountInString(text)).Msg("message sent")
	return true
}
