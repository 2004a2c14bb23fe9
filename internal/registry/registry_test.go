package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisperwall/backend/internal/registry"
)

// checkConsistency asserts the core invariant: the user index and the room
// participant sets always agree, and no room is empty or over-full.
func checkConsistency(t *testing.T, r *registry.Registry) {
	t.Helper()

	rooms := r.Rooms()
	total := 0
	seen := make(map[string]string)
	for _, room := range rooms {
		assert.GreaterOrEqual(t, len(room.Participants), 1, "empty rooms must not exist in the registry")
		assert.LessOrEqual(t, len(room.Participants), 2, "rooms never hold more than two participants")
		total += len(room.Participants)
		for _, userID := range room.Participants {
			_, dup := seen[userID]
			assert.False(t, dup, "user %s appears in more than one room", userID)
			seen[userID] = room.ID

			roomID, ok := r.RoomForUser(userID)
			assert.True(t, ok)
			assert.Equal(t, room.ID, roomID, "index entry must point at the room holding the user")
		}
	}
	assert.Equal(t, total, r.Users(), "index size must equal the sum of room participant counts")
}

func TestPairFillsRoomsInPairs(t *testing.T) {
	for _, n := range []int{2, 4, 10, 7, 1} {
		t.Run(fmt.Sprintf("%d users", n), func(t *testing.T) {
			r := registry.New()
			for i := 0; i < n; i++ {
				r.Pair(fmt.Sprintf("user-%d", i))
			}

			rooms := r.Rooms()
			full, waiting := 0, 0
			for _, room := range rooms {
				switch len(room.Participants) {
				case 2:
					full++
				case 1:
					waiting++
				}
			}

			assert.Equal(t, n/2, full, "after %d joins, %d rooms should be full", n, n/2)
			assert.Equal(t, n%2, waiting, "odd joiner count leaves exactly one waiting room")
			checkConsistency(t, r)
		})
	}
}

func TestThreeUsersSequence(t *testing.T) {
	r := registry.New()

	resX := r.Pair("X")
	assert.Equal(t, 1, resX.UserCount, "X waits alone")
	assert.Nil(t, resX.Departed)

	resY := r.Pair("Y")
	assert.Equal(t, resX.RoomID, resY.RoomID, "Y pairs into X's waiting room")
	assert.Equal(t, 2, resY.UserCount)
	assert.Equal(t, "X", resY.PeerID)

	resZ := r.Pair("Z")
	assert.NotEqual(t, resX.RoomID, resZ.RoomID, "Z opens a fresh room")
	assert.Equal(t, 1, resZ.UserCount)

	checkConsistency(t, r)
}

func TestFullLifecycleScenario(t *testing.T) {
	r := registry.New()

	resX := r.Pair("X")
	resY := r.Pair("Y")
	roomID := resX.RoomID
	require.Equal(t, roomID, resY.RoomID)

	msg, participants, err := r.AppendMessage(roomID, "X", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Content)
	assert.Equal(t, "X", msg.UserID)
	assert.NotEmpty(t, msg.ID, "message id is server-assigned")
	assert.False(t, msg.Timestamp.IsZero(), "timestamp is server-assigned")
	assert.ElementsMatch(t, []string{"X", "Y"}, participants)

	dep, err := r.Leave("Y")
	require.NoError(t, err)
	assert.Equal(t, 1, dep.Remaining)
	assert.Equal(t, "X", dep.PeerID)
	assert.Nil(t, dep.Session)

	room, ok := r.GetRoom(roomID)
	require.True(t, ok, "room survives with X alone")
	assert.Equal(t, []string{"X"}, room.Participants)

	dep, err = r.Leave("X")
	require.NoError(t, err)
	assert.Equal(t, 0, dep.Remaining)
	require.NotNil(t, dep.Session, "closing the room yields a session record")
	assert.Equal(t, roomID, dep.Session.RoomID)
	assert.Equal(t, 1, dep.Session.Messages)

	_, ok = r.GetRoom(roomID)
	assert.False(t, ok, "room is destroyed on last leave")
	assert.Zero(t, r.Users(), "index is empty")
	assert.Empty(t, r.Rooms())
}

func TestLeaveIsIdempotent(t *testing.T) {
	r := registry.New()
	r.Pair("solo")

	_, err := r.Leave("solo")
	require.NoError(t, err)

	before := r.Users()
	_, err = r.Leave("solo")
	assert.ErrorIs(t, err, registry.ErrUnknownUser, "second leave reports no entry, callers treat it as a no-op")
	assert.Equal(t, before, r.Users(), "second leave changes nothing")
}

func TestRejoinTearsDownPreviousPairing(t *testing.T) {
	r := registry.New()
	resA := r.Pair("A")
	r.Pair("B")

	// A rejoins while paired: the old pairing ends before the new one forms.
	res := r.Pair("A")
	require.NotNil(t, res.Departed)
	assert.Equal(t, resA.RoomID, res.Departed.RoomID)
	assert.Equal(t, 1, res.Departed.Remaining, "B is left behind waiting")
	assert.Equal(t, "B", res.Departed.PeerID)

	roomID, ok := r.RoomForUser("A")
	require.True(t, ok)
	assert.Equal(t, res.RoomID, roomID, "A is in exactly the new room")
	checkConsistency(t, r)
}

func TestRejoinWhileWaitingAlone(t *testing.T) {
	r := registry.New()
	resA := r.Pair("A")

	res := r.Pair("A")
	require.NotNil(t, res.Departed)
	assert.Equal(t, 0, res.Departed.Remaining, "the abandoned waiting room is destroyed")
	assert.NotEqual(t, resA.RoomID, res.RoomID)
	assert.Equal(t, 1, res.UserCount, "A waits alone again")
	assert.Equal(t, 1, len(r.Rooms()))
	checkConsistency(t, r)
}

func TestAddParticipantRejectsFullRoom(t *testing.T) {
	r := registry.New()
	roomID := r.CreateRoom()

	count, err := r.AddParticipant(roomID, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = r.AddParticipant(roomID, "B")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = r.AddParticipant(roomID, "C")
	assert.ErrorIs(t, err, registry.ErrRoomFull)
	_, ok := r.RoomForUser("C")
	assert.False(t, ok, "rejected participant is not indexed")
}

func TestAddParticipantRejectsUnknownRoomAndDoublePairing(t *testing.T) {
	r := registry.New()

	_, err := r.AddParticipant("missing", "A")
	assert.ErrorIs(t, err, registry.ErrRoomNotFound)

	first := r.CreateRoom()
	second := r.CreateRoom()
	_, err = r.AddParticipant(first, "A")
	require.NoError(t, err)
	_, err = r.AddParticipant(second, "A")
	assert.ErrorIs(t, err, registry.ErrAlreadyPaired)
}

func TestFindWaitingRoom(t *testing.T) {
	r := registry.New()

	_, ok := r.FindWaitingRoom()
	assert.False(t, ok, "empty registry has no waiting room")

	// A full room is not a waiting room; an empty (just created) one isn't either.
	r.Pair("A")
	r.Pair("B")
	r.CreateRoom()
	_, ok = r.FindWaitingRoom()
	assert.False(t, ok)

	res := r.Pair("C")
	roomID, ok := r.FindWaitingRoom()
	assert.True(t, ok)
	assert.Equal(t, res.RoomID, roomID)
}

func TestAppendMessageFailureModes(t *testing.T) {
	r := registry.New()

	_, _, err := r.AppendMessage("missing", "A", "hi")
	assert.ErrorIs(t, err, registry.ErrRoomNotFound, "sending into a vanished room is the expected race")

	res := r.Pair("A")
	_, _, err = r.AppendMessage(res.RoomID, "A", "hi")
	assert.ErrorIs(t, err, registry.ErrNoPeer, "no relay while waiting alone")

	r.Pair("B")
	_, _, err = r.AppendMessage(res.RoomID, "stranger", "hi")
	assert.ErrorIs(t, err, registry.ErrUnknownUser, "only occupants may append")

	room, _ := r.GetRoom(res.RoomID)
	assert.Zero(t, room.Messages, "failed sends append nothing")
}

func TestPeerOf(t *testing.T) {
	r := registry.New()

	_, err := r.PeerOf("A")
	assert.ErrorIs(t, err, registry.ErrUnknownUser)

	r.Pair("A")
	_, err = r.PeerOf("A")
	assert.ErrorIs(t, err, registry.ErrNoPeer)

	r.Pair("B")
	peer, err := r.PeerOf("A")
	require.NoError(t, err)
	assert.Equal(t, "B", peer)
	peer, err = r.PeerOf("B")
	require.NoError(t, err)
	assert.Equal(t, "A", peer)
}

// TestConcurrentPairing hammers Pair from many goroutines and verifies that
// no waiting room was ever double-claimed and no user was stranded: with an
// even caller count every room must end up full.
func TestConcurrentPairing(t *testing.T) {
	const users = 100

	r := registry.New()
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r.Pair(fmt.Sprintf("user-%d", id))
		}(i)
	}
	wg.Wait()

	rooms := r.Rooms()
	assert.Equal(t, users/2, len(rooms))
	for _, room := range rooms {
		assert.Len(t, room.Participants, 2, "room %s was left half-filled", room.ID)
	}
	checkConsistency(t, r)
}

// TestConcurrentChurn mixes pairing and leaving and only checks that the
// registry stays internally consistent.
func TestConcurrentChurn(t *testing.T) {
	r := registry.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", id)
			for j := 0; j < 20; j++ {
				r.Pair(userID)
				if j%3 == 0 {
					r.Leave(userID)
				}
			}
		}(i)
	}
	wg.Wait()

	checkConsistency(t, r)
}
