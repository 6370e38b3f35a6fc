package constants

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultKeywords  = "Broadcom,AVGO,VMware broadcom,VMware"
	defaultUsernames = "NickTimiraos,BurryArchive,michaeljburry,nvidia,nvidiaomniverse," +
		"NVIDIAAIDev,NVIDIADC,realMeetKevin,unusual_whales,RayDalio,stlouisfed"
)

// GetKeywords returns the configured search terms in declaration order.
func GetKeywords() []string {
	return splitList(viper.GetString(Keywords))
}

// GetUsernames returns the configured account handles in declaration order.
func GetUsernames() []string {
	return splitList(viper.GetString(Usernames))
}

// Terms may contain spaces ("VMware broadcom"), so only commas separate items.
func splitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
