// Package bot wires the watcher to Discord: prefix commands for
// interactive use and a scheduled push to the configured channel.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/absolutepraya/siasisten-bot/services/watcher"
)

const commandPrefix = "-"

type Options struct {
	Token string
	// guild name or id, only used to sanity-check membership on ready
	Guild string
	// channel id scheduled updates are pushed to
	ChannelId      string
	UpdateInterval time.Duration
}

type Bot struct {
	session *discordgo.Session
	watcher *watcher.Service
	opts    Options

	readyOnce sync.Once
	ready     chan struct{}
}

func New(w *watcher.Service, opts Options) (*Bot, error) {
	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		session: session,
		watcher: w,
		opts:    opts,
		ready:   make(chan struct{}),
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)
	return b, nil
}

// Run opens the gateway connection and blocks until ctx is cancelled.
// The scheduled update loop only starts once the session reports
// ready, so the first push never races the connection handshake.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return err
	}
	defer b.session.Close()

	if b.watcher.ScraperAvailable() {
		go func() {
			select {
			case <-ctx.Done():
				return
			case <-b.ready:
			}
			b.watcher.Watch(ctx, b.opts.UpdateInterval, b)
		}()
	} else {
		slog.Error("scraper is not available, scheduled updates disabled")
	}

	<-ctx.Done()
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("connected to discord", "user", r.User.Username)

	found := false
	for _, guild := range r.Guilds {
		if guild.Name == b.opts.Guild || guild.ID == b.opts.Guild {
			found = true
			slog.Info("serving guild", "name", guild.Name, "id", guild.ID)
			break
		}
	}
	if !found {
		slog.Error("configured guild not found, check DISCORD_GUILD", "guild", b.opts.Guild)
	}

	b.readyOnce.Do(func() { close(b.ready) })
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, commandPrefix) {
		return
	}
	fields := strings.Fields(strings.TrimPrefix(m.Content, commandPrefix))
	if len(fields) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch fields[0] {
	case "display":
		b.reply(s, m.ChannelID, watcher.FormatListing(b.watcher.Snapshot()))
	case "update":
		b.handleUpdate(ctx, s, m.ChannelID)
	case "clear":
		b.handleClear(s, m.ChannelID)
	case "h":
		b.reply(s, m.ChannelID, watcher.Help())
	}
}

func (b *Bot) handleUpdate(ctx context.Context, s *discordgo.Session, channelId string) {
	res, err := b.watcher.RunUpdate(ctx)
	switch {
	case errors.Is(err, watcher.ErrScraperUnavailable):
		b.replyText(s, channelId, "Scraper is not initialized. Unable to update lowongan.")
	case err != nil:
		b.replyText(s, channelId, "Failed to retrieve lowongan data.")
	case res.FirstRun:
		b.reply(s, channelId, watcher.FormatListing(b.watcher.Snapshot()))
	default:
		b.reply(s, channelId, watcher.FormatDiff(res.NewEntries, res.Time))
	}
}

func (b *Bot) handleClear(s *discordgo.Session, channelId string) {
	if err := b.watcher.Clear(); err != nil {
		slog.Error("clear stored data", "err", err)
		b.replyText(s, channelId, "Failed to clear stored data.")
		return
	}
	b.reply(s, channelId, watcher.Message{Title: "Data cleared!"})
}

func (b *Bot) reply(s *discordgo.Session, channelId string, msg watcher.Message) {
	_, err := s.ChannelMessageSendEmbed(channelId, &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
	})
	if err != nil {
		slog.Error("send embed", "channel", channelId, "err", err)
	}
}

func (b *Bot) replyText(s *discordgo.Session, channelId string, content string) {
	_, err := s.ChannelMessageSend(channelId, content)
	if err != nil {
		slog.Error("send message", "channel", channelId, "err", err)
	}
}

// Notify implements watcher.Notifier, pushing scheduled updates to
// the configured channel.
func (b *Bot) Notify(ctx context.Context, msg watcher.Message) error {
	_, err := b.session.ChannelMessageSendEmbed(b.opts.ChannelId, &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
	})
	return err
}
