package source

// Frontmost application and window title via System Events, printed as
// "App, Window" on one line.
const defaultActivityScript = `osascript -e 'tell application "System Events"
	set frontApp to first process whose frontmost is true
	set appTitle to name of frontApp
	set winTitle to ""
	try
		set winTitle to name of front window of frontApp
	end try
	return appTitle & ", " & winTitle
end tell'`

// HIDIdleTime is reported in nanoseconds
const defaultIdleScript = `ioreg -c IOHIDSystem | awk '/HIDIdleTime/ {print $NF/1000000000; exit}'`
