// Package rtc builds the ICE server configuration handed to clients.
// Peers establish their media transport directly; this server only supplies
// the configuration and relays negotiation metadata.
package rtc

import "github.com/pion/webrtc/v4"

// ICEServers returns the server list clients plug into their
// RTCPeerConnection configuration.
func ICEServers(stunURLs []string) []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, len(stunURLs))
	for _, u := range stunURLs {
		servers = append(servers, webrtc.ICEServer{URLs: []string{u}})
	}
	return servers
}
