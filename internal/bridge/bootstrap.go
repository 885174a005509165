package bridge

import (
	"fmt"

	"github.com/bnema/webbridge/internal/bridge/handlercall"
	"github.com/bnema/webbridge/internal/bridge/script"
)

// NativeFunction is the global the renderer installs in every content world
// before the bootstrap runs. It takes a message kind and a JSON body.
const NativeFunction = "__webbridgeNative"

// BootstrapScript returns the script-side runtime for this renderer. It is
// idempotent and must run in every content world that talks to the host.
func (b *Bridge) BootstrapScript() string {
	var windowID any
	if b.windowID != 0 {
		windowID = b.windowID
	}

	return fmt.Sprintf(`(function(){
var g=typeof window!=="undefined"?window:this;
if(g.%[1]s&&g.%[1]s._installed){return;}
var native=g.%[2]s;
var ns=g.%[1]s={_installed:true,_windowId:%[3]s,_nextCallId:1};
ns.%[4]s={};ns.%[5]s={};ns.%[6]s={};
ns.%[7]s=function(kind,body){
  body=body||{};
  if(ns._windowId!==null){body._windowId=ns._windowId;}
  native(kind,JSON.stringify(body));
};
ns.callHandler=function(name){
  var args=Array.prototype.slice.call(arguments,1);
  var id=ns._nextCallId++;
  return new Promise(function(resolve,reject){
    ns.%[4]s[id]={resolve:resolve,reject:reject};
    ns.%[7]s("callHandler",{handlerName:String(name),_callHandlerID:id,args:JSON.stringify(args)});
  });
};
g.print=function(){return ns.callHandler(%[8]s);};
var levels=["debug","log","info","warn","error"];
var format=function(a){
  if(typeof a==="string"){return a;}
  try{return JSON.stringify(a);}catch(e){return String(a);}
};
if(typeof console==="undefined"){g.console={};}
levels.forEach(function(level){
  var original=console[level];
  console[level]=function(){
    var parts=[];
    for(var i=0;i<arguments.length;i++){parts.push(format(arguments[i]));}
    try{ns.%[7]s("console",{level:level,message:parts.join(" ")});}catch(e){}
    if(typeof original==="function"){original.apply(console,arguments);}
  };
});
})();`,
		b.group.cfg.Namespace,
		NativeFunction,
		script.Literal(windowID),
		script.PromiseTable,
		script.ChannelTable,
		script.ListenerTable,
		script.SendFunction,
		script.Quote(handlercall.PrintHandlerName),
	)
}
