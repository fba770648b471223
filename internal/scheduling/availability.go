package scheduling

import "github.com/noah-isme/routine-api/internal/models"

// OccupiedRoomIDs returns the rooms referenced by academic sessions at the cell.
func OccupiedRoomIDs(day models.DayOfWeek, start string, schedule []Session) map[string]struct{} {
	occupied := make(map[string]struct{})
	for _, s := range SessionsAt(schedule, day, start) {
		if academic, ok := AsAcademic(s); ok {
			occupied[academic.RoomID] = struct{}{}
		}
	}
	return occupied
}

// FreeRooms returns the rooms, in catalog order, that no academic session
// occupies at day and start. Counseling sessions never hold a room.
func FreeRooms(day models.DayOfWeek, start string, rooms []models.Room, schedule []Session) []models.Room {
	occupied := OccupiedRoomIDs(day, start, schedule)
	free := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, taken := occupied[room.ID]; taken {
			continue
		}
		free = append(free, room)
	}
	return free
}

// SlotFull reports whether every room is taken at the cell.
func SlotFull(day models.DayOfWeek, start string, rooms []models.Room, schedule []Session) bool {
	return len(FreeRooms(day, start, rooms, schedule)) == 0
}
