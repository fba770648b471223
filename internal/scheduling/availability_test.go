package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/routine-api/internal/models"
)

func TestFreeRoomsComplement(t *testing.T) {
	rooms := []models.Room{{ID: "r1", RoomNumber: "R1"}, {ID: "r2", RoomNumber: "R2"}, {ID: "r3", RoomNumber: "R3"}}
	schedule := []Session{
		class("a", models.Monday, "08:30", "t1", "r2", "secA"),
		class("b", models.Monday, "10:00", "t2", "r1", "secB"),
		counseling("c", models.Monday, "08:30", "t3"),
	}

	free := FreeRooms(models.Monday, "08:30", rooms, schedule)
	assert.Equal(t, []models.Room{rooms[0], rooms[2]}, free)
	assert.False(t, SlotFull(models.Monday, "08:30", rooms, schedule))
}

func TestFreeRoomsEmptyWhenAllOccupied(t *testing.T) {
	rooms := []models.Room{{ID: "r1"}, {ID: "r2"}}
	schedule := []Session{
		class("a", models.Sunday, "16:00", "t1", "r1", "secA"),
		class("b", models.Sunday, "16:00", "t2", "r2", "secB"),
	}

	assert.Empty(t, FreeRooms(models.Sunday, "16:00", rooms, schedule))
	assert.True(t, SlotFull(models.Sunday, "16:00", rooms, schedule))
	assert.Len(t, OccupiedRoomIDs(models.Sunday, "16:00", schedule), len(rooms))
}

func TestFreeRoomsIgnoresCounseling(t *testing.T) {
	rooms := []models.Room{{ID: "r1"}}
	schedule := []Session{counseling("a", models.Sunday, "16:00", "t1")}

	assert.Equal(t, rooms, FreeRooms(models.Sunday, "16:00", rooms, schedule))
}
