package store

import (
	"github.com/peterbourgon/diskv/v3"
)

const (
	keyToken      = "token"
	keyDraftTitle = "draft_title"
	keyDraftText  = "draft_text"
)

// Disk is the production store: one file per key under basePath. Access is
// confined to the UI goroutines driving it, and diskv writes are atomic at
// key granularity.
type Disk struct {
	d *diskv.Diskv
}

func NewDisk(basePath string) *Disk {
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 64 * 1024,
	})}
}

func (s *Disk) Token() (string, bool) {
	val, err := s.d.Read(keyToken)
	if err != nil || len(val) == 0 {
		return "", false
	}
	return string(val), true
}

func (s *Disk) SetToken(token string) error {
	return s.d.Write(keyToken, []byte(token))
}

func (s *Disk) ClearToken() error {
	if !s.d.Has(keyToken) {
		return nil
	}
	return s.d.Erase(keyToken)
}

func (s *Disk) Draft() Draft {
	var d Draft
	if val, err := s.d.Read(keyDraftTitle); err == nil {
		d.Title = string(val)
	}
	if val, err := s.d.Read(keyDraftText); err == nil {
		d.Text = string(val)
	}
	return d
}

func (s *Disk) SaveDraft(d Draft) error {
	if err := s.d.Write(keyDraftTitle, []byte(d.Title)); err != nil {
		return err
	}
	return s.d.Write(keyDraftText, []byte(d.Text))
}

func (s *Disk) ClearDraft() error {
	for _, key := range []string{keyDraftTitle, keyDraftText} {
		if !s.d.Has(key) {
			continue
		}
		if err := s.d.Erase(key); err != nil {
			return err
		}
	}
	return nil
}
