package rule

import "regexp"

// ControllerPath is the controller source patched when no file is given.
const ControllerPath = "src/main/java/com/lld/parkinglot/controller/ParkingLotController.java"

// space also covers \v and Unicode separators; RE2's \s is ASCII [\t\n\f\r ] only.
const space = `[\s\v\x1c-\x1f\x85\p{Z}]`

// Names of the built-in controller rules, in application order.
const (
	ExitVehicleRequest = "ExitVehicleRequest"
	ReserveSpotRequest = "ReserveSpotRequest"
	ParkingLotStatus   = "ParkingLotStatus"
)

const exitVehicleAccessors = "${1}\n" +
	"        public String getTicketNumber() { return ticketNumber; }\n" +
	"        public void setTicketNumber(String ticketNumber) { this.ticketNumber = ticketNumber; }\n" +
	"    }"

const reserveSpotAccessors = "${1}\n" +
	"        public String getSpotNumber() { return spotNumber; }\n" +
	"        public int getDurationMinutes() { return durationMinutes; }\n" +
	"        public void setSpotNumber(String spotNumber) { this.spotNumber = spotNumber; }\n" +
	"        public void setDurationMinutes(int durationMinutes) { this.durationMinutes = durationMinutes; }\n" +
	"    }"

// ParkingLotStatusBody replaces the whole ParkingLotStatus class span.
const ParkingLotStatusBody = `public static class ParkingLotStatus {
        private Map<ParkingSpotType, Long> availableSpots;
        private double occupancyRate;
        private int activeTickets;
        
        public ParkingLotStatus(Map<ParkingSpotType, Long> availableSpots, double occupancyRate, int activeTickets) {
            this.availableSpots = availableSpots;
            this.occupancyRate = occupancyRate;
            this.activeTickets = activeTickets;
        }
        
        public Map<ParkingSpotType, Long> getAvailableSpots() { return availableSpots; }
        public double getOccupancyRate() { return occupancyRate; }
        public int getActiveTickets() { return activeTickets; }
    }`

// ControllerRules returns the three controller DTO rules.
//
// ParkingLotStatus matches up to the first closing brace after the class opens,
// so a body with nested braces is truncated at that brace. A patched class would
// match up to its constructor's brace; the guard leaves a match that already
// starts with the full replacement body untouched.
func ControllerRules() []Rule {
	return []Rule{
		{
			Name:        ExitVehicleRequest,
			Pattern:     `(public static class ExitVehicleRequest \{` + space + `*private String ticketNumber;` + space + `*)\}`,
			Replacement: exitVehicleAccessors,
		},
		{
			Name:        ReserveSpotRequest,
			Pattern:     `(public static class ReserveSpotRequest \{` + space + `*private String spotNumber;` + space + `*private int durationMinutes;` + space + `*)\}`,
			Replacement: reserveSpotAccessors,
		},
		{
			Name:        ParkingLotStatus,
			Pattern:     `public static class ParkingLotStatus \{[^}]*\}`,
			Replacement: ParkingLotStatusBody,
			Literal:     true,
			Guard:       regexp.QuoteMeta(ParkingLotStatusBody),
		},
	}
}

// ControllerSet returns the compiled controller rules.
func ControllerSet() Set {
	rules := ControllerRules()
	ret := make(Set, 0, len(rules))
	for _, r := range rules {
		ret = append(ret, r.MustCompile())
	}
	return ret
}
