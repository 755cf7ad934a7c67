package mqtt

import "fmt"

func TopicDeviceAnnounce(prefix string) string {
	return fmt.Sprintf("%s/device/+/announce", prefix)
}

func TopicDeviceOnline(prefix string) string {
	return fmt.Sprintf("%s/device/+/online", prefix)
}

func TopicDeviceHeartbeat(prefix string) string {
	return fmt.Sprintf("%s/device/+/heartbeat", prefix)
}

func TopicDeviceResult(prefix string) string {
	return fmt.Sprintf("%s/device/+/result/+", prefix)
}

func TopicSessionBargeIn(prefix string) string {
	return fmt.Sprintf("%s/session/+/bargein", prefix)
}

func TopicExec(prefix, deviceID, requestID string) string {
	return fmt.Sprintf("%s/device/%s/exec/%s", prefix, deviceID, requestID)
}

func TopicResult(prefix, deviceID, requestID string) string {
	return fmt.Sprintf("%s/device/%s/result/%s", prefix, deviceID, requestID)
}

func TopicAnnounce(prefix, deviceID string) string {
	return fmt.Sprintf("%s/device/%s/announce", prefix, deviceID)
}

func TopicOnline(prefix, deviceID string) string {
	return fmt.Sprintf("%s/device/%s/online", prefix, deviceID)
}

func TopicHeartbeat(prefix, deviceID string) string {
	return fmt.Sprintf("%s/device/%s/heartbeat", prefix, deviceID)
}

func TopicSay(prefix, sessionID string) string {
	return fmt.Sprintf("%s/session/%s/say", prefix, sessionID)
}
