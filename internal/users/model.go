package users

// User: /api/v1/users の 1 件
type User struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// XML の形
// <intranet>
//   <server><host>..</host><port>..</port><protocol>..</protocol></server>
//   <users><user id="10"><name>..</name><avatar>/api/images/users/10</avatar></user></users>
// </intranet>
type intranetXML struct {
	Server serverXML `xml:"server"`
	Users  []userXML `xml:"users>user"`
}

type serverXML struct {
	Host     string `xml:"host"`
	Port     string `xml:"port"`
	Protocol string `xml:"protocol"`
}

type userXML struct {
	ID     string `xml:"id,attr"`
	Name   string `xml:"name"`
	Avatar string `xml:"avatar"`
}

func (s serverXML) address() string {
	return s.Protocol + "://" + s.Host + ":" + s.Port
}
