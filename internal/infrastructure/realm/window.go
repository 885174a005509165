package realm

// windowJS installs the browser surface the bridge scripts rely on. The
// format arguments are the page URL and its origin as string literals.
const windowJS = `(function(g){
g.window=g;g.self=g;
g.location={href:%[1]s,origin:%[2]s};

var later=function(fn){Promise.resolve().then(fn);};

var logs=[];
var record=function(level){return function(){
  var parts=[];
  for(var i=0;i<arguments.length;i++){parts.push(String(arguments[i]));}
  logs.push(level+": "+parts.join(" "));
};};
g.console={debug:record("debug"),log:record("log"),info:record("info"),warn:record("warn"),error:record("error")};
g.__consoleLog=function(){return logs.slice();};

function MessagePort(){this._remote=null;this._started=false;this._closed=false;this._queue=[];this._listeners=[];this._onmessage=null;}
Object.defineProperty(MessagePort.prototype,"onmessage",{
  get:function(){return this._onmessage;},
  set:function(fn){this._onmessage=fn;this.start();}
});
MessagePort.prototype._dispatch=function(evt){
  if(this._closed){return;}
  if(typeof this._onmessage==="function"){this._onmessage(evt);}
  this._listeners.slice().forEach(function(fn){fn(evt);});
};
MessagePort.prototype.addEventListener=function(type,fn){if(type==="message"){this._listeners.push(fn);}};
MessagePort.prototype.removeEventListener=function(type,fn){if(type==="message"){this._listeners=this._listeners.filter(function(x){return x!==fn;});}};
MessagePort.prototype.postMessage=function(data,transfer){
  if(this._closed||!this._remote){return;}
  var remote=this._remote;
  var evt={data:data,ports:transfer||[]};
  if(remote._started){later(function(){remote._dispatch(evt);});}else{remote._queue.push(evt);}
};
MessagePort.prototype.start=function(){
  if(this._started){return;}
  this._started=true;
  var self=this;
  this._queue.splice(0).forEach(function(evt){later(function(){self._dispatch(evt);});});
};
MessagePort.prototype.close=function(){
  this._closed=true;
  if(this._remote){this._remote._remote=null;}
  this._remote=null;
};
function MessageChannel(){
  this.port1=new MessagePort();
  this.port2=new MessagePort();
  this.port1._remote=this.port2;
  this.port2._remote=this.port1;
}
g.MessagePort=MessagePort;
g.MessageChannel=MessageChannel;

var listeners=[];
g.onmessage=null;
g.addEventListener=function(type,fn){if(type==="message"){listeners.push(fn);}};
g.removeEventListener=function(type,fn){if(type==="message"){listeners=listeners.filter(function(x){return x!==fn;});}};
g.postMessage=function(data,targetOrigin,transfer){
  if(targetOrigin!=="*"&&targetOrigin!==g.location.origin){return;}
  var evt={data:data,origin:g.location.origin,ports:transfer||[],source:g};
  later(function(){
    if(typeof g.onmessage==="function"){g.onmessage(evt);}
    listeners.slice().forEach(function(fn){fn(evt);});
  });
};
})(this);`
