// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	stdimage "image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/gogpu/sketch/internal/image"
)

// DocumentVersion is the persisted format version. Load rejects documents
// with any other version.
const DocumentVersion = 1

// autosaveTimeout bounds one autosave write.
const autosaveTimeout = 30 * time.Second

// documentFile is the outer JSON object. Digest is the BLAKE2b-256 of the
// raw Body bytes.
type documentFile struct {
	Version int             `json:"version"`
	Digest  string          `json:"digest"`
	Body    json.RawMessage `json:"body"`
}

type documentBody struct {
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	Background Color               `json:"background"`
	Layers     []layerRecord       `json:"layers"`
	Active     LayerID             `json:"active"`
	Log        ActionList          `json:"log"`
	Redo       ActionList          `json:"redo"`
	Images     map[ImageRef][]byte `json:"images,omitempty"`
}

type layerRecord struct {
	LayerInfo
	// Pixels holds zlib-compressed premultiplied RGBA bytes. It is empty
	// in log-only documents.
	Pixels []byte `json:"pixels,omitempty"`
}

// snapshot is a consistent copy of the document taken under the session
// mutex. Encoding it needs no lock.
type snapshot struct {
	width, height int
	background    Color
	layers        []LayerInfo
	pixels        [][]byte
	active        LayerID
	log, redo     []Action
	images        map[ImageRef]stdimage.Image
}

// snapshotLocked copies the document state. Called with s.mu held.
func (s *Session) snapshotLocked(withPixels bool) *snapshot {
	snap := &snapshot{
		width:      s.Width(),
		height:     s.Height(),
		background: s.cfg.Canvas.Background,
		layers:     s.layers.Layers(),
		active:     s.layers.active,
		log:        s.history.Actions(),
		redo:       s.history.RedoActions(),
		images:     make(map[ImageRef]stdimage.Image, len(s.render.images)),
	}
	if withPixels {
		snap.pixels = make([][]byte, len(s.layers.layers))
		for i, l := range s.layers.layers {
			snap.pixels[i] = bytes.Clone(l.surface.Pix())
		}
	}
	for ref, img := range s.render.images {
		snap.images[ref] = img
	}
	return snap
}

func (snap *snapshot) encode() ([]byte, error) {
	body := documentBody{
		Width:      snap.width,
		Height:     snap.height,
		Background: snap.background,
		Layers:     make([]layerRecord, len(snap.layers)),
		Active:     snap.active,
		Log:        snap.log,
		Redo:       snap.redo,
	}
	for i, info := range snap.layers {
		body.Layers[i].LayerInfo = info
		if snap.pixels == nil {
			continue
		}
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(snap.pixels[i]); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		body.Layers[i].Pixels = buf.Bytes()
	}
	if len(snap.images) > 0 {
		body.Images = make(map[ImageRef][]byte, len(snap.images))
		for ref, img := range snap.images {
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return nil, fmt.Errorf("image %q: %w", ref, err)
			}
			body.Images[ref] = buf.Bytes()
		}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	sum := blake2b.Sum256(raw)
	return json.Marshal(documentFile{
		Version: DocumentVersion,
		Digest:  hex.EncodeToString(sum[:]),
		Body:    raw,
	})
}

// Save writes the document with per-layer pixel snapshots.
func (s *Session) Save(w io.Writer) error {
	return s.save(w, true)
}

// SaveLog writes the document without pixel snapshots. Load reconstructs
// the layers by replaying the log.
func (s *Session) SaveLog(w io.Writer) error {
	return s.save(w, false)
}

func (s *Session) save(w io.Writer, withPixels bool) error {
	s.mu.Lock()
	snap := s.snapshotLocked(withPixels)
	s.mu.Unlock()

	data, err := snap.encode()
	if err != nil {
		return fmt.Errorf("%w: encode document: %w", ErrStorageFailure, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: write document: %w", ErrStorageFailure, err)
	}
	return nil
}

// Load reads a document written by Save or SaveLog. The canvas size comes
// from the document; other settings come from opts. Documents without
// pixel snapshots are rebuilt by replaying their log.
func Load(r io.Reader, opts ...Option) (*Session, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %w", ErrStorageFailure, err)
	}
	body, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	s, err := newSession(body.Width, body.Height, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	s.cfg.Canvas.Background = body.Background
	s.comp.background = body.Background
	if err := s.restore(body); err != nil {
		return nil, err
	}
	s.log.Info("sketch: document loaded",
		"width", body.Width, "height", body.Height,
		"layers", len(body.Layers), "actions", len(body.Log))
	return s, nil
}

func decodeDocument(data []byte) (*documentBody, error) {
	var f documentFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	if f.Version != DocumentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	want, err := hex.DecodeString(f.Digest)
	sum := blake2b.Sum256(f.Body)
	if err != nil || !bytes.Equal(want, sum[:]) {
		return nil, ErrCorruptDocument
	}
	var body documentBody
	if err := json.Unmarshal(f.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	if len(body.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrCorruptDocument)
	}
	return &body, nil
}

// restore installs a decoded document into an empty session.
func (s *Session) restore(body *documentBody) error {
	for ref, data := range body.Images {
		img, err := image.DecodeBytes(data)
		if err != nil {
			return fmt.Errorf("%w: image %q: %w", ErrCorruptDocument, ref, err)
		}
		if err := s.registerImage(ref, img); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptDocument, err)
		}
	}

	snapshots := true
	for _, rec := range body.Layers {
		l, err := s.layers.restore(rec.LayerInfo)
		if err != nil {
			return err
		}
		if len(rec.Pixels) == 0 {
			snapshots = false
			continue
		}
		if err := inflate(l.surface.Pix(), rec.Pixels); err != nil {
			return fmt.Errorf("%w: layer %s pixels: %w", ErrCorruptDocument, l.id, err)
		}
	}
	if body.Active != "" {
		if err := s.layers.SetActive(body.Active); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptDocument, err)
		}
	}

	seen := make(map[ActionID]bool, len(body.Log)+len(body.Redo))
	check := func(a Action) error {
		if _, err := s.layers.Get(a.LayerID()); err != nil {
			return fmt.Errorf("%w: action %s: %w", ErrCorruptDocument, a.ID(), err)
		}
		if a.ID() == "" || seen[a.ID()] {
			return fmt.Errorf("%w: action id %q", ErrCorruptDocument, a.ID())
		}
		seen[a.ID()] = true
		return nil
	}
	for _, a := range body.Log {
		if err := check(a); err != nil {
			return err
		}
		s.history.push(a)
	}
	for _, a := range body.Redo {
		if err := check(a); err != nil {
			return err
		}
		s.history.redo = append(s.history.redo, a)
	}

	if snapshots {
		return nil
	}
	if err := s.history.fullRebuild(s.layers.layers); err != nil {
		return fmt.Errorf("%w: replay: %w", ErrCorruptDocument, err)
	}
	return nil
}

// inflate decompresses src into dst, which it must fill exactly.
func inflate(dst, src []byte) error {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return err
	}
	defer func() { _ = zr.Close() }()
	if _, err := io.ReadFull(zr, dst); err != nil {
		return err
	}
	if n, _ := zr.Read(make([]byte, 1)); n != 0 {
		return errors.New("trailing pixel data")
	}
	return nil
}

// --------------------------------------------------------------------------
// Stores and autosave
// --------------------------------------------------------------------------

// Store persists encoded documents for autosave.
type Store interface {
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context) ([]byte, error)
}

// FileStore keeps the document in one file, replaced atomically.
type FileStore struct {
	Path string
}

// Write replaces the file through a temporary file and a rename.
func (f FileStore) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return nil
}

// Read returns the stored document.
func (f FileStore) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return data, nil
}

// Restore loads the document held by store.
func Restore(ctx context.Context, store Store, opts ...Option) (*Session, error) {
	data, err := store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data), append(opts, WithStore(store))...)
}

// NotifyKind classifies a Notification.
type NotifyKind uint8

const (
	// NotifyStorageFailure reports a failed autosave.
	NotifyStorageFailure NotifyKind = iota + 1
	// NotifySaved reports a completed autosave.
	NotifySaved
)

func (k NotifyKind) String() string {
	switch k {
	case NotifyStorageFailure:
		return "storage failure"
	case NotifySaved:
		return "saved"
	}
	return "unknown"
}

// Notification is an asynchronous event delivered to the channel set with
// WithNotifier.
type Notification struct {
	Kind NotifyKind
	Err  error
	Time time.Time
}

// notify sends n without blocking.
func (s *Session) notify(n Notification) {
	if s.notifier == nil {
		return
	}
	select {
	case s.notifier <- n:
	default:
		s.log.Debug("sketch: notification dropped", "kind", n.Kind)
	}
}

// scheduleAutosave (re)arms the debounce timer. Called with s.mu held.
func (s *Session) scheduleAutosave() {
	if s.store == nil {
		return
	}
	s.pending = true
	d := time.Duration(s.cfg.Autosave.Debounce)
	if s.autosave == nil {
		s.autosave = time.AfterFunc(d, func() { _ = s.autosaveNow() })
		return
	}
	s.autosave.Reset(d)
}

// autosaveNow snapshots the document under the session lock and writes it
// outside of it. saveMu keeps writes in snapshot order.
func (s *Session) autosaveNow() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.pending = false
	snap := s.snapshotLocked(true)
	s.mu.Unlock()

	data, err := snap.encode()
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
		err = s.store.Write(ctx, data)
		cancel()
	}
	if err != nil {
		if !errors.Is(err, ErrStorageFailure) {
			err = fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
		s.log.Warn("sketch: autosave failed", "err", err)
		s.notify(Notification{Kind: NotifyStorageFailure, Err: err, Time: time.Now()})
		return err
	}
	s.log.Debug("sketch: autosaved", "bytes", len(data))
	s.notify(Notification{Kind: NotifySaved, Time: time.Now()})
	return nil
}
