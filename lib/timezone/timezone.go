package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Jakarta")
	if err != nil {
		panic(err)
	}
}

// force timestamps into WIB no matter where the bot is deployed,
// the portal and everyone reading the notifications live there
func Now() time.Time {
	return time.Now().In(Location)
}
