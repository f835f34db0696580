package session

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/parley-im/parley/internal/domain"
	"github.com/parley-im/parley/internal/log"
)

// fakeService scripts the transport side. Every method records its call,
// returns an injected error when one is set for it, and otherwise serves
// the scripted data.
type fakeService struct {
	mu sync.Mutex

	pubkey     string
	groups     []domain.Group
	available  []domain.Group
	messages   map[string][]domain.Message // transport-local history per group
	history    map[string][]domain.Message // remote history served by FetchMessages
	members    map[string][]domain.Member
	unread     int
	relayAdmin bool
	inviteCode string
	leaveOK    bool

	calls   map[string]int
	errs    map[string]error
	rejects map[string]bool // falsy success indicators per method

	events     chan domain.Event
	markedRead []string
	joined     []string
}

func newFakeService() *fakeService {
	return &fakeService{
		pubkey:     "npub1selfselfselfselfselfself",
		messages:   make(map[string][]domain.Message),
		history:    make(map[string][]domain.Message),
		members:    make(map[string][]domain.Member),
		inviteCode: "INV-TEST",
		leaveOK:    true,
		calls:      make(map[string]int),
		errs:       make(map[string]error),
		rejects:    make(map[string]bool),
		events:     make(chan domain.Event, 8),
	}
}

// record counts the call and returns the injected error, if any.
func (f *fakeService) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.errs[method]
}

func (f *fakeService) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeService) setErr(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeService) setReject(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejects[method] = true
}

func (f *fakeService) rejected(method string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rejects[method]
}

func (f *fakeService) markedReadGroups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.markedRead)
}

func (f *fakeService) setPubkey(pubkey string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pubkey = pubkey
}

func (f *fakeService) GetGroups(ctx context.Context) ([]domain.Group, error) {
	if err := f.record("GetGroups"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.groups), nil
}

func (f *fakeService) GetMessages(ctx context.Context, groupID string) ([]domain.Message, error) {
	if err := f.record("GetMessages"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.messages[groupID]), nil
}

func (f *fakeService) GetMembers(ctx context.Context, groupID string) ([]domain.Member, error) {
	if err := f.record("GetMembers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.members[groupID]), nil
}

func (f *fakeService) FetchAvailableGroups(ctx context.Context) ([]domain.Group, error) {
	if err := f.record("FetchAvailableGroups"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.available), nil
}

// FetchMessages backfills the transport-local history from the scripted
// remote history, the way the real transport hydrates its store.
func (f *fakeService) FetchMessages(ctx context.Context, groupID string) ([]domain.Message, error) {
	if err := f.record("FetchMessages"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if remote, ok := f.history[groupID]; ok {
		f.messages[groupID] = slices.Clone(remote)
	}
	return slices.Clone(f.messages[groupID]), nil
}

func (f *fakeService) TotalUnreadCount(ctx context.Context) (int, error) {
	if err := f.record("TotalUnreadCount"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread, nil
}

func (f *fakeService) IsGroupAdmin(ctx context.Context, groupID string) (bool, error) {
	if err := f.record("IsGroupAdmin"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members[groupID] {
		if m.PubKey == f.pubkey {
			return m.Role == domain.RoleAdmin, nil
		}
	}
	return false, nil
}

func (f *fakeService) IsGroupModerator(ctx context.Context, groupID string) (bool, error) {
	if err := f.record("IsGroupModerator"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members[groupID] {
		if m.PubKey == f.pubkey {
			return m.Role == domain.RoleModerator, nil
		}
	}
	return false, nil
}

func (f *fakeService) IsRelayAdmin(ctx context.Context) (bool, error) {
	if err := f.record("IsRelayAdmin"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.relayAdmin, nil
}

func (f *fakeService) MyPublicKey() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pubkey
}

func (f *fakeService) JoinGroup(ctx context.Context, groupID, inviteCode string) error {
	if err := f.record("JoinGroup"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, groupID)
	if slices.ContainsFunc(f.groups, func(g domain.Group) bool { return g.ID == groupID }) {
		return nil
	}
	for _, g := range f.available {
		if g.ID == groupID {
			f.groups = append(f.groups, g)
			return nil
		}
	}
	f.groups = append(f.groups, domain.Group{ID: groupID, Name: groupID})
	return nil
}

func (f *fakeService) LeaveGroup(ctx context.Context, groupID string) (bool, error) {
	if err := f.record("LeaveGroup"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.leaveOK {
		f.groups = slices.DeleteFunc(f.groups, func(g domain.Group) bool { return g.ID == groupID })
	}
	return f.leaveOK, nil
}

func (f *fakeService) SendMessage(ctx context.Context, groupID, content, replyTo string) (*domain.Message, error) {
	if err := f.record("SendMessage"); err != nil {
		return nil, err
	}
	if f.rejected("SendMessage") {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := domain.Message{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		Sender:    f.pubkey,
		Content:   content,
		Timestamp: time.Now().Unix(),
		ReplyTo:   replyTo,
	}
	f.messages[groupID] = append(f.messages[groupID], msg)
	return &msg, nil
}

func (f *fakeService) DeleteMessage(ctx context.Context, groupID, messageID string) (bool, error) {
	if err := f.record("DeleteMessage"); err != nil {
		return false, err
	}
	if f.rejected("DeleteMessage") {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[groupID] = slices.DeleteFunc(f.messages[groupID], func(m domain.Message) bool { return m.ID == messageID })
	return true, nil
}

func (f *fakeService) KickUser(ctx context.Context, groupID, pubkey, reason string) (bool, error) {
	if err := f.record("KickUser"); err != nil {
		return false, err
	}
	if f.rejected("KickUser") {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[groupID] = slices.DeleteFunc(f.members[groupID], func(m domain.Member) bool { return m.PubKey == pubkey })
	return true, nil
}

func (f *fakeService) CreateGroup(ctx context.Context, opts domain.GroupOptions) (*domain.Group, error) {
	if err := f.record("CreateGroup"); err != nil {
		return nil, err
	}
	if f.rejected("CreateGroup") {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	group := domain.Group{
		ID:          uuid.NewString(),
		Name:        opts.Name,
		Description: opts.Description,
		Visibility:  opts.Visibility,
		MemberCount: 1,
	}
	f.groups = append(f.groups, group)
	return &group, nil
}

func (f *fakeService) DeleteGroup(ctx context.Context, groupID string) (bool, error) {
	if err := f.record("DeleteGroup"); err != nil {
		return false, err
	}
	if f.rejected("DeleteGroup") {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = slices.DeleteFunc(f.groups, func(g domain.Group) bool { return g.ID == groupID })
	f.available = slices.DeleteFunc(f.available, func(g domain.Group) bool { return g.ID == groupID })
	return true, nil
}

func (f *fakeService) CreateInvite(ctx context.Context, groupID string) (string, error) {
	if err := f.record("CreateInvite"); err != nil {
		return "", err
	}
	if f.rejected("CreateInvite") {
		return "", nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inviteCode, nil
}

func (f *fakeService) MarkGroupAsRead(ctx context.Context, groupID string) error {
	if err := f.record("MarkGroupAsRead"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedRead = append(f.markedRead, groupID)
	return nil
}

func (f *fakeService) Events(ctx context.Context) (<-chan domain.Event, error) {
	if err := f.record("Events"); err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		close(f.events)
	}()
	return f.events, nil
}

// fakeKV is an in-memory domain.KeyValue with injectable Set failures.
type fakeKV struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (kv *fakeKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok
}

func (kv *fakeKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.setErr != nil {
		return kv.setErr
	}
	kv.data[key] = value
	return nil
}

func (kv *fakeKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}

func (kv *fakeKV) Close() error { return nil }

func newTestSession(t *testing.T, svc *fakeService) (*Session, *fakeKV) {
	t.Helper()
	kv := newFakeKV()
	s, err := New(svc, kv, Options{Logger: log.Null()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, kv
}

// settle waits for background refetches started so far to land.
func settle(s *Session) {
	s.refetches.Wait()
}
